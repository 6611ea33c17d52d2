package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"bondrewd/internal/diag"
	"bondrewd/internal/logging"
	"bondrewd/internal/project"
	"bondrewd/internal/source"
	"bondrewd/internal/trace"
)

// ListSources возвращает отсортированный список исходников в dir с
// расширением из sources, пропуская исключённые пути.
func ListSources(dir string, sources project.SourcesConfig) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil || rel == "." {
			return relErr
		}
		if sources.Excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && sources.IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ParseDir парсит все исходники в dir параллельно, по арене на файл.
//
// Results follow the sorted file order and share the returned FileSet. A
// file that fails to load or parse still gets a result whose Bag explains
// why; the error return is reserved for walk failures and cancellation,
// after which entries of files never started are nil.
// events, when non-nil, receives queued/working/done/error for every file
// and is closed before ParseDir returns.
func ParseDir(ctx context.Context, dir string, opts Options, events chan<- Event) (*source.FileSet, []*ParseResult, error) {
	if events != nil {
		defer close(events)
	}
	files, err := ListSources(dir, opts.Sources)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	tr := opts.tracer()
	pass := trace.Begin(tr, trace.ScopePass, "parse-dir", 0)
	hb := trace.StartHeartbeat(tr, opts.Heartbeat)
	defer hb.Stop()

	for _, path := range files {
		emit(ctx, events, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// FileSet не потокобезопасен на запись: загружаем всё заранее
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	done := opts.track("load")
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустая запись, чтобы диагностике было на что сослаться
			loadErrors[path] = err
			fileID = fileSet.AddVirtual(path, nil)
		}
		fileIDs[path] = fileID
	}
	done(fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	log := logging.Get("driver")
	log.Infof("parsing %d files in %s with %d jobs", len(files), dir, min(jobs, len(files)))

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*ParseResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.maxDiagnostics())
				diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{File: fileIDs[path]}, "failed to load file: "+loadErr.Error()).Emit()
				results[i] = &ParseResult{FileSet: fileSet, File: fileSet.Get(fileIDs[path]), FileID: fileIDs[path], Bag: bag}
				emit(gctx, events, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}

			emit(gctx, events, Event{File: path, Stage: StageParse, Status: StatusWorking})
			start := time.Now()
			res := parseFile(fileSet, fileIDs[path], &opts, pass.ID())
			results[i] = res

			ev := Event{File: path, Stage: StageParse, Status: StatusDone, Elapsed: time.Since(start)}
			if res.Root.IsNil() {
				ev.Status = StatusError
				ev.Err = firstError(res.Bag)
			}
			emit(gctx, events, ev)
			return nil
		})
	}

	err = g.Wait()
	failed := 0
	for _, r := range results {
		if r != nil && r.Bag.HasErrors() {
			failed++
		}
	}
	pass.WithExtra("files", strconv.Itoa(len(files))).WithExtra("failed", strconv.Itoa(failed)).End("")
	return fileSet, results, err
}

func firstError(bag *diag.Bag) error {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			return errors.New(d.Code.ID() + ": " + d.Message)
		}
	}
	return nil
}
