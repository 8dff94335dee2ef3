package filesystem

// Open returns the FileSystem serving a location string together with the path to use
// on it and a closer that releases it. Local paths are served by the real filesystem;
// sftp:// URLs dial the host. The closer is never nil.
func Open(location string) (FileSystem, string, func(), error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, "", nil, err
	}

	if !loc.IsRemote {
		return NewRealFileSystem(), loc.Path, func() {}, nil
	}

	conn, err := Connect(loc)
	if err != nil {
		return nil, "", nil, err
	}

	return NewSFTPFileSystem(conn), loc.Path, func() { _ = conn.Close() }, nil
}
