// main is the command-line entry point of the school-records tool.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment)
//  2. Initialise the logger
//  3. Connect to (and set up) the SQLite database
//  4. Dispatch the requested subcommand
//
// USAGE:
//
//	school-records [--config=config/local.yaml] <command>
//
//	list <students|instructors|courses>   print records from the database
//	backup [path]                         copy the database file
//	export <file.csv>                     write the JSON-backed records as CSV
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/school-records/internal/config"
	"github.com/aanand-mishra/school-records/internal/registry"
	"github.com/aanand-mishra/school-records/internal/storage"
	"github.com/aanand-mishra/school-records/internal/storage/sqlite"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting school-records",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.StoragePath),
	)

	// The result is used through the storage.Storage interface, not
	// *sqlite.SQLite, so swapping backends changes this one line.
	db, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := run(cfg, log, db, flag.Args()); err != nil {
		log.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, db storage.Storage, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given (expected list, backup, or export)")
	}

	switch args[0] {
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("list: expected students, instructors, or courses")
		}
		return list(db, args[1])

	case "backup":
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		msg, err := db.Backup(path)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil

	case "export":
		if len(args) < 2 {
			return fmt.Errorf("export: expected an output file path")
		}
		return export(cfg, log, args[1])

	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// list prints one entity label per line, the same short form the
// selection UIs show.
func list(db storage.Storage, kind string) error {
	switch kind {
	case "students":
		students, err := db.GetAllStudents()
		if err != nil {
			return err
		}
		for _, s := range students {
			fmt.Println(s.Label())
		}
	case "instructors":
		instructors, err := db.GetAllInstructors()
		if err != nil {
			return err
		}
		for _, i := range instructors {
			fmt.Println(i.Label())
		}
	case "courses":
		courses, err := db.GetAllCourses()
		if err != nil {
			return err
		}
		for _, c := range courses {
			fmt.Println(c.Label())
		}
	default:
		return fmt.Errorf("list: unknown kind: %s", kind)
	}
	return nil
}

// export loads the JSON record files from the data directory and
// writes them as a single CSV. Missing record files are fine: an
// empty school exports as just the header row.
func export(cfg *config.Config, log *slog.Logger, out string) error {
	reg := registry.New(log)
	loads := []struct {
		file string
		fn   func(string) error
	}{
		{registry.StudentsFile, reg.LoadStudents},
		{registry.InstructorsFile, reg.LoadInstructors},
		{registry.CoursesFile, reg.LoadCourses},
	}
	for _, l := range loads {
		path := filepath.Join(cfg.DataDir, l.file)
		if err := l.fn(path); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.Debug("record file missing", slog.String("file", path))
				continue
			}
			return err
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", out, err)
	}
	defer f.Close()

	if err := reg.ExportCSV(f); err != nil {
		return err
	}
	log.Info("exported records", slog.String("file", out))
	return nil
}

// setupLogger returns a *slog.Logger configured for the given
// environment: human-readable text at DEBUG level in dev, JSON for
// staging and prod.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
