package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

const maxSlugAttempts = 10

var (
	slugAdjectives = [...]string{
		"happy", "bright", "swift", "calm", "bold", "cool", "wise", "kind", "warm", "quick",
		"neat", "rare", "fine", "pure", "rich", "lucky", "brave", "clever", "gentle", "proud",
		"smart", "noble", "quiet", "wild", "fresh", "sweet", "eager", "merry", "lively", "fancy",
		"jolly", "mighty", "sharp", "sleek", "snappy", "stable", "sturdy", "tender", "vivid", "witty",
		"zesty", "agile", "crisp", "dapper", "grand", "plucky", "spry", "zippy", "chipper", "dashing",
	}
	slugNouns = [...]string{
		"cat", "dog", "fox", "owl", "bee", "elk", "ray", "lion", "moon", "star",
		"sun", "wave", "tree", "leaf", "bird", "fish", "bear", "wolf", "deer", "seal",
		"hawk", "dove", "frog", "crab", "duck", "goat", "panda", "koala", "tiger", "zebra",
		"eagle", "otter", "cloud", "river", "ocean", "stone", "pearl", "gem", "rose", "wind",
		"flame", "spark", "light", "dawn", "dusk", "peak", "path", "brook", "meadow",
	}
	slugVerbs = [...]string{
		"runs", "flies", "jumps", "swims", "climbs", "dances", "shines", "grows", "moves", "soars",
		"glides", "flows", "blooms", "waves", "sings", "plays", "leaps", "hops", "spins", "twirls",
		"drifts", "floats", "bounces", "races", "zooms", "skips", "slides", "rolls", "glows", "beams",
		"sparkles", "gleams", "wanders", "roams", "travels", "sails", "cruises", "strolls", "trots", "dashes",
		"springs", "bounds", "vaults", "swoops", "dives", "surges", "rushes", "speeds", "hastens", "whisks",
	}
)

// SlugGenerator produces adjective-noun-verb-#### slugs.
type SlugGenerator struct {
	intN func(n int) int
	now  func() time.Time
}

func NewSlugGenerator() *SlugGenerator {
	return &SlugGenerator{intN: rand.IntN, now: time.Now}
}

func (g *SlugGenerator) Generate() string {
	return fmt.Sprintf("%s-%s-%s-%d",
		slugAdjectives[g.intN(len(slugAdjectives))],
		slugNouns[g.intN(len(slugNouns))],
		slugVerbs[g.intN(len(slugVerbs))],
		1000+g.intN(9000),
	)
}

// Unique generates slugs until exists reports one as free. After
// maxSlugAttempts collisions it appends the base-36 millisecond clock instead.
func (g *SlugGenerator) Unique(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for range maxSlugAttempts {
		slug := g.Generate()
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return g.Generate() + "-" + strconv.FormatInt(g.now().UnixMilli(), 36), nil
}
