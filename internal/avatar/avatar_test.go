package avatar

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func deterministic() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestGenerate_ValidSVG(t *testing.T) {
	svg := generate("alice avatar", deterministic())

	if !strings.HasPrefix(svg, `<svg width="70" height="70" xmlns="http://www.w3.org/2000/svg">`) {
		t.Errorf("unexpected svg prefix: %q", svg[:60])
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}
	if !strings.Contains(svg, "<title>alice avatar</title>") {
		t.Error("missing title element")
	}
}

func TestGenerate_EscapesTitle(t *testing.T) {
	svg := generate(`<script>"pwn" & co`, deterministic())

	if strings.Contains(svg, "<script>") {
		t.Error("title not escaped")
	}
	if !strings.Contains(svg, "&lt;script&gt;") {
		t.Error("expected escaped title content")
	}
}

func TestGenerate_NoTitle(t *testing.T) {
	svg := generate("", deterministic())
	if strings.Contains(svg, "<title>") {
		t.Error("unexpected title element")
	}
}

func TestGenerate_Mirrored(t *testing.T) {
	svg := generate("", deterministic())

	re := regexp.MustCompile(`<rect x="(\d+)" y="(\d+)" width="10" height="10"`)
	cells := make(map[[2]int]bool)
	for _, m := range re.FindAllStringSubmatch(svg, -1) {
		x, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		cells[[2]int{x, y}] = true
	}
	if len(cells) == 0 {
		t.Fatal("no cells drawn")
	}
	for cell := range cells {
		mirror := [2]int{60 - cell[0], cell[1]}
		if !cells[mirror] {
			t.Errorf("cell %v has no mirror at %v", cell, mirror)
		}
	}
}

func TestGenerate_DistinctColors(t *testing.T) {
	svg := generate("", deterministic())

	re := regexp.MustCompile(`fill="(#[0-9a-f]{6})"`)
	colors := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(svg, -1) {
		colors[m[1]] = true
	}
	if len(colors) != 2 {
		t.Errorf("expected 2 distinct colors, got %v", colors)
	}
}
