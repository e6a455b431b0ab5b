package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hfc/archive"
	"hfc/state"
)

// Run is the CLI entry point for the convert command: every argument is a
// file, directory or zip archive of saved pages to convert; "-" reads HTML
// from stdin and writes the result to stdout. Individual failures do not
// stop the batch.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	if cmd.Args().Len() == 0 {
		return errors.New("no input source has been specified")
	}

	env.Fragment = cmd.Bool("fragment") || env.Cfg.Conversion.Fragment
	env.Overwrite = cmd.Bool("overwrite") || env.Cfg.Conversion.Overwrite
	env.ToStdout = cmd.Bool("stdout")
	env.OutputDir = cmd.String("dest")
	if env.OutputDir == "" {
		env.OutputDir = env.Cfg.Conversion.OutputDir
	}
	env.Extension = env.Cfg.Conversion.OutputExtension
	if env.Extension == "" {
		env.Extension = ".xaml"
	}

	log.Info("Processing starting", zap.Strings("sources", cmd.Args().Slice()))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	c := NewConverter(env.Log)

	var errs error
	for _, src := range cmd.Args().Slice() {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if src == "-" {
			errs = multierr.Append(errs, processStdin(c, env))
			continue
		}
		errs = multierr.Append(errs, process(ctx, c, src, env, log))
	}
	return errs
}

// process converts a single file or every convertible file in a directory.
func process(ctx context.Context, c *Converter, src string, env *state.LocalEnv, log *zap.Logger) error {
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsRegular() {
		if strings.EqualFold(filepath.Ext(src), ".zip") {
			if err := processArchive(c, src, env, log); err != nil {
				log.Error("Unable to process archive", zap.String("archive", src), zap.Error(err))
				return err
			}
			return nil
		}
		if err := processFile(c, src, env, log); err != nil {
			log.Error("Unable to process file", zap.String("file", src), zap.Error(err))
			return err
		}
		return nil
	}
	if !fi.Mode().IsDir() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	count := 0
	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() || !isMarkupFile(path) {
			return nil
		}
		count++
		if err := processFile(c, path, env, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("dir", src))
	}
	return err
}

func isMarkupFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// processFile converts one file, writing the result next to the input or
// under the destination directory.
func processFile(c *Converter, src string, env *state.LocalEnv, log *zap.Logger) (rerr error) {
	outputName := outputPath(src, env)

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// a malformed input must never stop a batch
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	out, err := c.ConvertReader(file, env.Fragment)
	if err != nil {
		return fmt.Errorf("unable to convert (%s): %w", src, err)
	}
	return writeOutput(out, outputName, env, log)
}

// processArchive converts every markup entry of a zip archive, naming each
// result after the entry.
func processArchive(c *Converter, src string, env *state.LocalEnv, log *zap.Logger) (rerr error) {
	log.Info("Archive conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else {
			log.Info("Archive conversion completed", zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	count := 0
	err := archive.Walk(src, isMarkupFile, func(arc string, f *zip.File) error {
		count++
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		out, err := c.ConvertReader(rc, env.Fragment)
		if err != nil {
			return fmt.Errorf("unable to convert (%s!%s): %w", arc, f.Name, err)
		}
		entry := filepath.Join(filepath.Dir(arc), path.Base(f.Name))
		return writeOutput(out, outputPath(entry, env), env, log)
	})
	if err == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("archive", src))
	}
	return err
}

// writeOutput places one conversion result: stdout in stdout mode, else the
// derived output file, honoring the overwrite policy.
func writeOutput(out, outputName string, env *state.LocalEnv, log *zap.Logger) error {
	if env.ToStdout {
		_, err := io.WriteString(os.Stdout, out+"\n")
		return err
	}

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return os.WriteFile(outputName, []byte(out), 0644)
}

func processStdin(c *Converter, env *state.LocalEnv) error {
	out, err := c.ConvertReader(os.Stdin, env.Fragment)
	if err != nil {
		return fmt.Errorf("unable to convert stdin: %w", err)
	}
	_, err = io.WriteString(os.Stdout, out+"\n")
	return err
}

// outputPath derives the destination file name: the input name with the
// configured extension, placed next to the input or under the destination
// directory.
func outputPath(src string, env *state.LocalEnv) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + env.Extension
	if env.OutputDir != "" {
		return filepath.Join(env.OutputDir, base)
	}
	return filepath.Join(filepath.Dir(src), base)
}
