// Package ssh is a simple wrapper for golang.org/x/crypto/ssh
package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
)

var defaultTimeout = 8 * time.Second

// Config is a pair of user and host
type Config struct {
	User    string
	Host    string
	KeyFile string
}

func withDefaultPort(host string) string {
	_, _, err := net.SplitHostPort(host)
	if err == nil {
		return host
	}
	const defaultPort = "22"
	return net.JoinHostPort(host, defaultPort)
}

func withDefaultUser(name string) string {
	if len(name) == 0 {
		if u, err := user.Current(); err == nil {
			return u.Username
		}
	}
	return name
}

func withDefaultKeyFile(file string) string {
	if len(file) == 0 {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".ssh", "id_rsa")
		}
	}
	return file
}

func completeConfig(config Config) Config {
	return Config{
		User:    withDefaultUser(config.User),
		Host:    withDefaultPort(config.Host),
		KeyFile: withDefaultKeyFile(config.KeyFile),
	}
}

var errNoKey = errors.New("failed to get key")

func newSSHClient(config Config) (*ssh.Client, error) {
	key, err := loadKeyFile(config.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoKey, err)
	}
	clientConfig := &ssh.ClientConfig{
		User: config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(key),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         defaultTimeout,
	}
	return ssh.Dial("tcp", config.Host, clientConfig)
}

// Client is a wrapper for ssh.Client
type Client struct {
	config Config
	client *ssh.Client
}

// New creates a new Client
func New(cfg Config) (*Client, error) {
	cfg = completeConfig(cfg)
	client, err := newSSHClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{cfg, client}, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("%s@%s", c.config.User, c.config.Host)
}

// Run executes cmd in a new session and returns its combined output.
func (c *Client) Run(ctx context.Context, cmd string) ([]byte, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()
	buf := &bytes.Buffer{}
	session.Stdout = buf
	session.Stderr = buf
	if err := session.Start(cmd); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- session.Wait() }()
	select {
	case err := <-done:
		return buf.Bytes(), err
	case <-ctx.Done():
		session.Close()
		return nil, ctx.Err()
	}
}

func loadKeyFile(file string) (ssh.Signer, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(buf)
}

// Close closes the client
func (c *Client) Close() error {
	return c.client.Close()
}
