package filesystem

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	// maxPacket is the SFTP packet size requested for transfers.
	maxPacket = 64 * 1024
	// dialTimeout bounds the TCP connect and SSH handshake to a device host.
	dialTimeout = 15 * time.Second
)

// defaultKeyNames are tried in order under ~/.ssh.
//
//nolint:gochecknoglobals // Fixed lookup list
var defaultKeyNames = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// SFTPConnection is an SSH client with one SFTP session on it. A tree device rooted on a
// remote host owns exactly one connection for as long as it is open.
type SFTPConnection struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	loc        Location
}

// Connect dials the host of a remote location and opens an SFTP session. Keys are
// offered from the SSH agent first, then from the unencrypted default keys in ~/.ssh.
func Connect(loc *Location) (*SFTPConnection, error) {
	if !loc.IsRemote {
		return nil, fmt.Errorf("%s is not an sftp:// location", loc) //nolint:err113 // Caller bug
	}

	home, _ := os.UserHomeDir()

	signers := collectSigners(home)
	if len(signers) == 0 {
		return nil, fmt.Errorf("unable to authenticate to %s: no SSH agent and no usable key in ~/.ssh", loc.Host) //nolint:err113 // Static guidance
	}

	config := &ssh.ClientConfig{
		User:            loc.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signers...)},
		HostKeyCallback: hostKeyCallback(home),
		Timeout:         dialTimeout,
	}

	sshClient, err := ssh.Dial("tcp", net.JoinHostPort(loc.Host, strconv.Itoa(loc.Port)), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s@%s:%d: %w", loc.User, loc.Host, loc.Port, err)
	}

	sftpClient, err := sftp.NewClient(sshClient, sftp.MaxPacket(maxPacket))
	if err != nil {
		_ = sshClient.Close()

		return nil, fmt.Errorf("failed to start SFTP on %s: %w", loc.Host, err)
	}

	return &SFTPConnection{sshClient: sshClient, sftpClient: sftpClient, loc: *loc}, nil
}

// Close ends the SFTP session and the SSH connection under it.
func (c *SFTPConnection) Close() error {
	return errors.Join(c.sftpClient.Close(), c.sshClient.Close())
}

// Client returns the underlying SFTP client.
func (c *SFTPConnection) Client() *sftp.Client {
	return c.sftpClient
}

// String returns user@host:port for log messages.
func (c *SFTPConnection) String() string {
	return fmt.Sprintf("%s@%s:%d", c.loc.User, c.loc.Host, c.loc.Port)
}

// hostKeyCallback verifies host keys against ~/.ssh/known_hosts when that file exists.
// Without it, any host key is accepted.
func hostKeyCallback(home string) ssh.HostKeyCallback {
	if home != "" {
		if callback, err := knownhosts.New(filepath.Join(home, ".ssh", "known_hosts")); err == nil {
			return callback
		}
	}

	return ssh.InsecureIgnoreHostKey() //nolint:gosec // No known_hosts to verify against
}

func collectSigners(home string) []ssh.Signer {
	var signers []ssh.Signer

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			if fromAgent, err := agent.NewClient(conn).Signers(); err == nil {
				signers = append(signers, fromAgent...)
			}
		}
	}

	if home != "" {
		signers = append(signers, loadKeySigners(filepath.Join(home, ".ssh"))...)
	}

	return signers
}

// loadKeySigners parses the default private keys found in dir. Missing, unreadable and
// passphrase-protected keys are skipped.
func loadKeySigners(dir string) []ssh.Signer {
	var signers []ssh.Signer

	for _, name := range defaultKeyNames {
		data, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // Fixed names under ~/.ssh
		if err != nil {
			continue
		}

		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			continue
		}

		signers = append(signers, signer)
	}

	return signers
}
