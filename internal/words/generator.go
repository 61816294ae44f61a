package words

import (
	"embed"
	"fmt"
	"io/fs"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/wordblitz/internal/model"
)

//go:embed lists/*.txt
var listsFS embed.FS

// Categories returns the embedded word category names, sorted.
func Categories() []string {
	entries, err := fs.ReadDir(listsFS, "lists")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(names)
	return names
}

// GeneratorSource picks uniformly random words from an embedded
// category list filtered by the difficulty's length band.
type GeneratorSource struct {
	rnd  *rand.Rand
	pool []string
}

// NewGeneratorSource loads a category list and filters it for the
// difficulty. When filtering leaves nothing, the full list is used.
func NewGeneratorSource(category string, difficulty model.Difficulty) (*GeneratorSource, error) {
	pool, err := loadCategory(category)
	if err != nil {
		return nil, err
	}
	minLen, maxLen := difficulty.LengthBand()
	filtered := filterByLength(pool, minLen, maxLen)
	if len(filtered) == 0 {
		filtered = pool
	}
	return newGeneratorSource(filtered, rand.New(rand.NewSource(time.Now().UnixNano()))), nil
}

func newGeneratorSource(pool []string, rnd *rand.Rand) *GeneratorSource {
	return &GeneratorSource{rnd: rnd, pool: pool}
}

// Next returns a random word from the pool. Never wraps.
func (g *GeneratorSource) Next() (string, bool) {
	return g.pool[g.rnd.Intn(len(g.pool))], false
}

func loadCategory(category string) ([]string, error) {
	name := strings.TrimSpace(strings.ToLower(category))
	if name == "" {
		name = "common"
	}
	data, err := fs.ReadFile(listsFS, "lists/"+name+".txt")
	if err != nil {
		return nil, fmt.Errorf("unknown category %q (available: %s)", category, strings.Join(Categories(), ", "))
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		word := strings.TrimSpace(strings.ToLower(line))
		if word == "" {
			continue
		}
		out = append(out, word)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("category %q word list is empty", name)
	}
	return out, nil
}

func filterByLength(pool []string, minLen, maxLen int) []string {
	var out []string
	for _, word := range pool {
		n := len([]rune(word))
		if n >= minLen && n <= maxLen {
			out = append(out, word)
		}
	}
	return out
}
