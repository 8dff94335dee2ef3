package finder

import (
	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/glob"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// IterateAll calls fn for every object under storage matching pathPattern, depth first
// in enumeration order. With recursive, the whole subtree of every match is reported
// after it. Folders that cannot be enumerated are logged and skipped.
func (f *Finder) IterateAll(
	device wpd.Device,
	deviceName string,
	storage wpd.ContentObjectInfo,
	pathPattern string,
	recursive bool,
	fn Callback,
) error {
	chain, err := glob.Compile(pathPattern)
	if err != nil {
		return apperrors.Wrap(apperrors.KindInvalidPath, err, "invalid path %q", pathPattern)
	}

	w := &walker{finder: f, device: device, recursive: recursive, fn: fn}
	base := StoragePrefix(deviceName, storage)

	state, next := chain.MatchRoot()
	switch state {
	case glob.Completed:
		action, err := fn(storage, base+`\`)
		if err != nil || action == Stop || !recursive {
			return err
		}
		_, err = w.walk(storage.ID, nil, base)

		return err
	case glob.Accepted:
		_, err = w.walk(storage.ID, next, base)

		return err
	default:
		return nil
	}
}

// FindOne returns the first object under storage matching path, or nil.
func (f *Finder) FindOne(device wpd.Device, deviceName string, storage wpd.ContentObjectInfo, path string) (*Match, error) {
	var match *Match

	err := f.IterateAll(device, deviceName, storage, path, false,
		func(info wpd.ContentObjectInfo, displayPath string) (Action, error) {
			match = &Match{Info: info, DisplayPath: displayPath}

			return Stop, nil
		})
	if err != nil {
		return nil, err
	}

	return match, nil
}

type walker struct {
	finder    *Finder
	device    wpd.Device
	recursive bool
	fn        Callback
}

// walk visits the children of parent. A nil node matches everything, which is how
// a matched folder's subtree is dumped. It returns Stop once the callback asked to.
func (w *walker) walk(parent wpd.ObjectID, node *glob.Node, basePath string) (Action, error) {
	it, err := w.device.Children(parent)
	if err != nil {
		w.finder.logger.Debug().Err(err).Msg("enumeration failed")
		w.finder.logger.Warn().Str("path", basePath).Msg("failed to open folder, skipped")

		return Continue, nil
	}

	for id, ok := it.Next(); ok; id, ok = it.Next() {
		info, err := wpd.GetObjectInfo(w.device, id)
		if err != nil {
			return Stop, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read %s", basePath)
		}

		if !info.IsFile() && !info.IsFolder() {
			continue
		}

		state, next := glob.Completed, (*glob.Node)(nil)
		if node != nil {
			state, next = node.Match(info.Name, info.IsFolder())
		}

		displayPath := basePath + `\` + info.Name

		switch state {
		case glob.Completed:
			action, err := w.fn(info, displayPath)
			if err != nil || action == Stop {
				return Stop, err
			}

			if w.recursive && info.IsFolder() {
				if action, err := w.walk(info.ID, nil, displayPath); err != nil || action == Stop {
					return Stop, err
				}
			}
		case glob.Accepted:
			if action, err := w.walk(info.ID, next, displayPath); err != nil || action == Stop {
				return Stop, err
			}
		case glob.Rejected:
		}
	}

	if err := it.Err(); err != nil {
		return Stop, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to enumerate %s", basePath)
	}

	return Continue, nil
}
