// Package copyengine replays a source tree, local or on a device, onto a destination
// folder. Unchanged files are skipped, and with mirroring, destination entries missing
// from the source are deleted.
package copyengine

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/filesystem"
)

// Processor runs copies. It is not safe for concurrent use.
type Processor struct {
	logger  zerolog.Logger
	emitter EventEmitter
	result  Result
}

// NewProcessor creates a Processor that logs per-entry actions to logger.
func NewProcessor(logger zerolog.Logger) *Processor {
	return &Processor{logger: logger}
}

// SetEventEmitter sets the event emitter. When set, the source is counted before the
// walk so that CopyStarted carries totals.
func (p *Processor) SetEventEmitter(emitter EventEmitter) {
	p.emitter = emitter
}

// GetEventEmitter returns the current event emitter.
func (p *Processor) GetEventEmitter() EventEmitter {
	return p.emitter
}

func (p *Processor) emit(event Event) {
	if p.emitter != nil {
		p.emitter.Emit(event)
	}
}

// Run copies src to target. An existing folder target receives the source's entries
// (a file source is copied into it under its own name); an existing file target is
// replaced; a missing target is created. Any error aborts the walk.
func (p *Processor) Run(src Source, target *Target, mirror bool) (*Result, error) {
	p.result = Result{}

	info := src.Info()

	err := checkVisible(attributesOf(info), "source")
	if err == nil && target.kind == targetFile && info.IsFolder {
		err = apperrors.New(apperrors.KindInvalidPath, "cannot copy the folder %s onto the file %s", src.Path(), target.path)
	}
	if err != nil {
		return nil, err
	}

	started := CopyStarted{Source: src.Path(), Destination: target.path, Mirror: mirror}
	if p.emitter != nil {
		started.TotalFiles, started.TotalBytes, err = src.Count()
		if err != nil {
			return nil, err
		}
	}

	p.emit(started)
	p.logger.Info().Str("source", src.Path()).Str("destination", target.path).Bool("mirror", mirror).Msg("copy started")

	err = p.run(src, target, mirror)
	result := p.result

	p.emit(CopyFinished{Result: &result, Err: err})

	if err != nil {
		return &result, err
	}

	p.logger.Info().
		Int("copied", result.FilesCopied).
		Int("skipped", result.FilesSkipped).
		Int("deleted", result.FilesDeleted+result.FoldersDeleted).
		Int64("bytes", result.BytesCopied).
		Msg("copy finished")

	return &result, nil
}

func (p *Processor) run(src Source, target *Target, mirror bool) error {
	if target.kind != targetFolder {
		return p.Copy(src, target.folder, target.name, true, mirror)
	}

	if !src.Info().IsFolder {
		return p.Copy(src, target.folder, src.Info().Name, true, mirror)
	}

	children, err := src.Children()
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := p.Copy(child, target.folder, child.Info().Name, true, mirror); err != nil {
			return err
		}
	}

	if mirror {
		return target.folder.DeleteUnretained()
	}

	return nil
}

// Copy copies one entry into dest as name. Hidden and system entries are ignored.
// Folders are descended into when recursive is set, and with mirror their stale
// destination entries are deleted afterwards.
func (p *Processor) Copy(src Source, dest DestinationFolder, name string, recursive, mirror bool) error {
	info := src.Info()
	if info.Hidden || info.System {
		p.logger.Debug().Str("path", src.Path()).Msg("ignored hidden or system entry")

		return nil
	}

	if !info.IsFolder {
		return p.copyFile(src, info, dest, name)
	}

	child, err := dest.OpenOrCreateFolder(name)
	if err != nil {
		return err
	}

	dest.Retain(name)

	if !recursive {
		return nil
	}

	children, err := src.Children()
	if err != nil {
		return err
	}

	for _, entry := range children {
		if err := p.Copy(entry, child, entry.Info().Name, recursive, mirror); err != nil {
			return err
		}
	}

	if mirror {
		return child.DeleteUnretained()
	}

	return nil
}

func (p *Processor) copyFile(src Source, info FileInfo, dest DestinationFolder, name string) error {
	var size int64
	if info.Size != nil {
		size = *info.Size
	}

	existing, err := dest.Info(name)
	if err != nil {
		return err
	}

	if existing != nil && CanSkipCopying(info, *existing) {
		dest.Retain(name)
		p.result.FilesSkipped++
		p.emit(FileSkipped{Path: src.Path(), Size: size})
		p.logger.Info().Str("path", src.Path()).Msg("skipped unchanged file")

		return nil
	}

	if existing != nil {
		if err := dest.Delete(name); err != nil {
			return err
		}
	}

	reader, err := src.Open()
	if err != nil {
		return err
	}
	defer reader.Close()

	p.emit(FileCopyStarted{Path: src.Path(), Size: size})

	counting := &progressReader{reader: reader, path: src.Path(), size: size, emit: p.emit}
	if err := dest.CreateFile(name, counting, size, info.Created, info.Modified); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src.Path(), err)
	}

	dest.Retain(name)
	p.result.FilesCopied++
	p.result.BytesCopied += counting.copied
	p.emit(FileCopied{Path: src.Path(), Size: counting.copied})
	p.logger.Info().Str("path", src.Path()).Int64("bytes", counting.copied).Msg("copied file")

	return nil
}

// FolderCreated records a folder created by a destination.
func (p *Processor) FolderCreated(path string) {
	p.result.FoldersCreated++
	p.emit(FolderCreated{Path: path})
	p.logger.Info().Str("path", path).Msg("created folder")
}

// Deleted records an entry deleted by a destination.
func (p *Processor) Deleted(path string, folder bool) {
	if folder {
		p.result.FoldersDeleted++
		p.emit(FolderDeleted{Path: path})
		p.logger.Info().Str("path", path).Msg("deleted folder")

		return
	}

	p.result.FilesDeleted++
	p.emit(FileDeleted{Path: path})
	p.logger.Info().Str("path", path).Msg("deleted file")
}

type progressReader struct {
	reader io.Reader
	path   string
	size   int64
	copied int64
	emit   func(Event)
}

func (r *progressReader) Read(buf []byte) (int, error) {
	n, err := r.reader.Read(buf)
	if n > 0 {
		r.copied += int64(n)
		r.emit(FileProgress{Path: r.path, BytesCopied: r.copied, Size: r.size})
	}

	return n, err //nolint:wrapcheck // Pass-through reader
}

func attributesOf(info FileInfo) filesystem.Attributes {
	return filesystem.Attributes{Hidden: info.Hidden, System: info.System, Created: info.Created}
}
