package copyengine

// Event is the interface implemented by all copy engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// CopyStarted is emitted once the source and destination are resolved.
type CopyStarted struct {
	Source      string
	Destination string
	Mirror      bool
	// TotalFiles and TotalBytes count the visible source files; both are zero when the
	// source was not counted.
	TotalFiles int
	TotalBytes int64
}

func (CopyStarted) isEvent() {}

// FileCopyStarted is emitted before a file is streamed.
type FileCopyStarted struct {
	Path string
	Size int64
}

func (FileCopyStarted) isEvent() {}

// FileProgress is emitted after each chunk of a file is written.
type FileProgress struct {
	Path        string
	BytesCopied int64
	Size        int64
}

func (FileProgress) isEvent() {}

// FileCopied is emitted when a file has been written and its timestamps applied.
type FileCopied struct {
	Path string
	Size int64
}

func (FileCopied) isEvent() {}

// FileSkipped is emitted when the destination already holds the file.
type FileSkipped struct {
	Path string
	Size int64
}

func (FileSkipped) isEvent() {}

// FolderCreated is emitted when a destination folder is created.
type FolderCreated struct {
	Path string
}

func (FolderCreated) isEvent() {}

// FileDeleted is emitted when a stale destination file is removed.
type FileDeleted struct {
	Path string
}

func (FileDeleted) isEvent() {}

// FolderDeleted is emitted when a stale destination folder is removed.
type FolderDeleted struct {
	Path string
}

func (FolderDeleted) isEvent() {}

// CopyFinished is emitted when the walk ends, successfully or not.
type CopyFinished struct {
	Result *Result
	Err    error
}

func (CopyFinished) isEvent() {}

// Result counts what a copy did.
type Result struct {
	FilesCopied    int
	FilesSkipped   int
	FilesDeleted   int
	FoldersCreated int
	FoldersDeleted int
	BytesCopied    int64
}
