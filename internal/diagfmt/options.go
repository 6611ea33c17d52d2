package diagfmt

// PathMode says how file paths are printed.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // as given, or the base name of long absolute paths
	PathModeAbsolute
	PathModeRelative // relative to the FileSet base dir
	PathModeBasename
)

// ParsePathMode accepts "auto", "absolute", "relative" and "basename".
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "auto", "":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

func (m PathMode) name() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	}
	return "auto"
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color       bool
	Context     int8 // source lines shown above the primary line
	PathMode    PathMode
	Width       uint8 // максимальная ширина строки исходника, 0 - не ограничено
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}
