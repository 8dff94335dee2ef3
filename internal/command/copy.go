package command

import (
	"github.com/joe/mtp-copy/internal/copyengine"
	"github.com/joe/mtp-copy/pkg/devpath"
	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/glob"
)

// Copy copies source to destination, each either a local path or a device address.
// With mirror, destination entries missing from the source are deleted. emitter may be
// nil.
func (e *Environment) Copy(source, destination string, mirror bool, emitter copyengine.EventEmitter) (*copyengine.Result, error) {
	if glob.ContainsWildcard(source) {
		return nil, apperrors.New(apperrors.KindInvalidPath, "the source path must not be the wildcard.")
	}

	if glob.ContainsWildcard(destination) {
		return nil, apperrors.New(apperrors.KindInvalidPath, "the destination path must not be the wildcard.")
	}

	processor := copyengine.NewProcessor(e.logger)
	if emitter != nil {
		processor.SetEventEmitter(emitter)
	}

	src, closeSource, err := e.openSource(source)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	target, closeTarget, err := e.openTarget(destination, processor)
	if err != nil {
		return nil, err
	}
	defer closeTarget()

	return processor.Run(src, target, mirror)
}

func (e *Environment) openSource(path string) (copyengine.Source, func(), error) {
	switch devpath.GetPathType(path) {
	case devpath.Local:
		src, err := copyengine.NewLocalSource(e.fs, path)
		if err != nil {
			return nil, nil, err
		}

		return src, func() {}, nil
	case devpath.DeviceStorage:
		manager, err := e.devices()
		if err != nil {
			return nil, nil, err
		}

		endpoint, err := e.finder.Resolve(manager, path, "source", true)
		if err != nil {
			return nil, nil, err
		}

		src := copyengine.NewDeviceSource(endpoint.Device, endpoint.Object, endpoint.DisplayPath)

		return src, func() { _ = endpoint.Device.Close() }, nil
	default:
		return nil, nil, apperrors.New(apperrors.KindInvalidPath, "invalid source path.")
	}
}

func (e *Environment) openTarget(path string, observer copyengine.Observer) (*copyengine.Target, func(), error) {
	switch devpath.GetPathType(path) {
	case devpath.Local:
		target, err := copyengine.NewLocalTarget(e.fs, path, observer)
		if err != nil {
			return nil, nil, err
		}

		return target, func() {}, nil
	case devpath.DeviceStorage:
		manager, err := e.devices()
		if err != nil {
			return nil, nil, err
		}

		location, err := e.finder.Locate(manager, path, "destination")
		if err != nil {
			return nil, nil, err
		}

		target, err := copyengine.NewDeviceTarget(location, observer)
		if err != nil {
			_ = location.Device.Close()

			return nil, nil, err
		}

		return target, func() { _ = location.Device.Close() }, nil
	default:
		return nil, nil, apperrors.New(apperrors.KindInvalidPath, "invalid destination path.")
	}
}
