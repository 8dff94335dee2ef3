package filesystem

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Location is a parsed filesystem location: a local path or an SFTP URL.
type Location struct {
	IsRemote bool

	// Path is the local path, or the remote path for SFTP locations
	Path string

	// For SFTP locations
	Host string
	Port int
	User string
}

// ParseLocation parses a location string.
// SFTP URLs have the format: sftp://user@host:port/path/to/dir
// Port is optional (defaults to 22). file:// URLs and plain paths are local.
// Examples:
//   - sftp://joe@camera.local/DCIM
//   - sftp://joe@nas:2222//srv/phone
//   - file:///media/phone
//   - /media/phone
func ParseLocation(location string) (*Location, error) {
	switch {
	case strings.HasPrefix(location, "sftp://"):
		return parseSFTPURL(location)
	case strings.HasPrefix(location, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL: %w", err)
		}
		if u.Path == "" {
			return nil, fmt.Errorf("file URL must include a path (file:///path)") //nolint:err113,perfsprint // URL validation with format guidance
		}

		return &Location{Path: u.Path}, nil
	case location == "":
		return nil, fmt.Errorf("location is empty") //nolint:err113,perfsprint // Validation error
	default:
		return &Location{Path: location}, nil
	}
}

// String renders the location back as a path or URL.
func (l *Location) String() string {
	if !l.IsRemote {
		return l.Path
	}

	return fmt.Sprintf("sftp://%s@%s:%d/%s", l.User, l.Host, l.Port, l.Path)
}

// parseSFTPURL parses an SFTP URL into its components.
func parseSFTPURL(sftpURL string) (*Location, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid SFTP URL: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("SFTP URL must include username (sftp://user@host/path)") //nolint:err113,perfsprint // URL validation with format guidance
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("SFTP URL must include host") //nolint:err113,perfsprint // URL validation error
	}

	port := 22
	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}
		port = p
	}

	// SFTP path convention:
	//   sftp://user@host/path  → relative to home directory (strip leading /)
	//   sftp://user@host//path → absolute path /path (strip one /)
	//   sftp://user@host       → home directory (.)
	remotePath := u.Path
	switch {
	case remotePath == "" || remotePath == "/":
		remotePath = "."
	case strings.HasPrefix(remotePath, "//"):
		remotePath = remotePath[1:]
	default:
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &Location{
		IsRemote: true,
		Path:     remotePath,
		Host:     host,
		Port:     port,
		User:     u.User.Username(),
	}, nil
}
