package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

// languageSeeds cover each statement form once.
var languageSeeds = []string{
	"",
	"cartridge demo;\n",
	"namespace cartridge::a::b;\n",
	"func main(): int32 => { 0 };\n",
	"ctime var x: int = 5;\n",
	"struct Point(x: int, y: int);\n",
	"class C(self, n: int = 1);\n",
	"impl Show for Point { func show(self) => self.x; };\n",
	"x += a if b else c;\n",
	"a < b <= c != d;\n",
	"not a and b or c;\n",
	"f(a, *rest, key: 1)[0:2];\n",
	"'single' \"double\";\n",
	"0x1F + 0b101 * 1_000 / 2.5e3;\n",
	"# comment\n/* block */ x;\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.bd файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".bd" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
