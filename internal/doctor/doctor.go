package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaa/musicmaid/internal/config"
	"github.com/jaa/musicmaid/internal/engine"
)

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

type Check struct {
	Severity Severity `json:"severity"`
	Name     string   `json:"name"`
	Message  string   `json:"message"`
}

type Report struct {
	Checks []Check `json:"checks"`
}

func (r Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

func (r Report) ErrorCount() int {
	count := 0
	for _, check := range r.Checks {
		if check.Severity == SeverityError {
			count++
		}
	}
	return count
}

func (r *Report) add(severity Severity, name string, format string, args ...any) {
	r.Checks = append(r.Checks, Check{Severity: severity, Name: name, Message: fmt.Sprintf(format, args...)})
}

// Checker verifies that an organize run could start with cfg. Every
// filesystem check is a field so tests can fake it.
type Checker struct {
	Stat          func(string) (os.FileInfo, error)
	ReadDir       func(string) ([]os.DirEntry, error)
	CheckWritable func(string) error
	LockLibrary   func(string) (func() error, error)
}

func NewChecker() *Checker {
	return &Checker{
		Stat:          os.Stat,
		ReadDir:       os.ReadDir,
		CheckWritable: checkDirWritable,
		LockLibrary:   engine.LockLibrary,
	}
}

func (c *Checker) Check(ctx context.Context, cfg config.Config) Report {
	report := Report{Checks: []Check{}}

	if err := config.Validate(cfg); err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			for _, problem := range validation.Problems {
				report.add(SeverityError, "config", "%s", problem)
			}
		} else {
			report.add(SeverityError, "config", "%v", err)
		}
	} else {
		report.add(SeverityInfo, "config", "config is valid")
	}

	source, destination, err := config.ResolveDirs(cfg)
	if err != nil {
		report.add(SeverityError, "filesystem", "%v", err)
		return report
	}
	if ctx.Err() != nil {
		return report
	}

	c.checkSource(&report, source)
	c.checkDestination(&report, destination)
	return report
}

func (c *Checker) checkSource(report *Report, source string) {
	if source == "" {
		return
	}
	info, err := c.Stat(source)
	switch {
	case errors.Is(err, os.ErrNotExist):
		report.add(SeverityError, "source", "source directory %s doesn't exist", source)
		return
	case err != nil:
		report.add(SeverityError, "source", "source directory %s is not accessible: %v", source, err)
		return
	case !info.IsDir():
		report.add(SeverityError, "source", "source %s is not a directory", source)
		return
	}
	if _, err := c.ReadDir(source); err != nil {
		report.add(SeverityError, "source", "source directory %s is not readable: %v", source, err)
		return
	}
	if err := c.CheckWritable(source); err != nil {
		report.add(SeverityWarn, "source", "source directory %s is read-only; files can be copied but not removed: %v", source, err)
		return
	}
	report.add(SeverityInfo, "source", "source directory %s is readable", source)
}

func (c *Checker) checkDestination(report *Report, destination string) {
	if destination == "" {
		return
	}
	info, err := c.Stat(destination)
	if errors.Is(err, os.ErrNotExist) {
		parent := nearestExistingParent(c.Stat, destination)
		if err := c.CheckWritable(parent); err != nil {
			report.add(SeverityError, "destination", "destination %s cannot be created under %s: %v", destination, parent, err)
			return
		}
		report.add(SeverityInfo, "destination", "destination %s will be created", destination)
		return
	}
	if err != nil {
		report.add(SeverityError, "destination", "destination %s is not accessible: %v", destination, err)
		return
	}
	if !info.IsDir() {
		report.add(SeverityError, "destination", "destination %s is not a directory", destination)
		return
	}
	if err := c.CheckWritable(destination); err != nil {
		report.add(SeverityError, "destination", "destination %s is not writable: %v", destination, err)
		return
	}
	report.add(SeverityInfo, "destination", "destination %s is writable", destination)

	unlock, err := c.LockLibrary(destination)
	if err != nil {
		if errors.Is(err, engine.ErrLibraryLocked) {
			report.add(SeverityWarn, "lock", "another run is organizing into %s", destination)
			return
		}
		report.add(SeverityError, "lock", "library lock unavailable: %v", err)
		return
	}
	_ = unlock()
	report.add(SeverityInfo, "lock", "library lock %s is free", engine.LockPath(destination))
}

func nearestExistingParent(stat func(string) (os.FileInfo, error), path string) string {
	for {
		parent := filepath.Dir(path)
		if parent == path {
			return parent
		}
		if _, err := stat(parent); err == nil {
			return parent
		}
		path = parent
	}
}

func checkDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	file, err := os.CreateTemp(path, ".musicmaid-write-check-*")
	if err != nil {
		return err
	}
	name := file.Name()
	_ = file.Close()
	_ = os.Remove(name)
	return nil
}
