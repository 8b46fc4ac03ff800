package ssh

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestCompleteConfig(t *testing.T) {
	c := completeConfig(Config{User: "ubuntu", Host: "10.0.0.7", KeyFile: "/keys/id"})
	assert.Equal(t, Config{User: "ubuntu", Host: "10.0.0.7:22", KeyFile: "/keys/id"}, c)

	c = completeConfig(Config{User: "ubuntu", Host: "10.0.0.7:2222"})
	assert.Equal(t, "10.0.0.7:2222", c.Host)
	assert.Equal(t, "id_rsa", filepath.Base(c.KeyFile))
}

func TestNewWithoutKey(t *testing.T) {
	_, err := New(Config{User: "ubuntu", Host: "127.0.0.1", KeyFile: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, errNoKey)
}

func TestRunCancelled(t *testing.T) {
	addr := serveStalled(t)
	c, err := New(Config{User: "ubuntu", Host: addr, KeyFile: writeKeyFile(t)})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	out, err := c.Run(ctx, "sleep 60")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, out)
}

func writeKeyFile(t *testing.T) string {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(key, "")
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(file, pem.EncodeToMemory(block), 0o600))
	return file
}

// serveStalled accepts any key and starts every exec request, writes some
// output and never reports an exit status.
func serveStalled(t *testing.T) string {
	_, hostKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(hostKey)
	require.NoError(t, err)
	cfg := &ssh.ServerConfig{
		PublicKeyCallback: func(ssh.ConnMetadata, ssh.PublicKey) (*ssh.Permissions, error) {
			return nil, nil
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(nc, cfg)
		}
	}()
	return ln.Addr().String()
}

func serveConn(nc net.Conn, cfg *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(nc, cfg)
	if err != nil {
		nc.Close()
		return
	}
	go ssh.DiscardRequests(reqs)
	for nch := range chans {
		ch, creqs, err := nch.Accept()
		if err != nil {
			continue
		}
		go func() {
			for req := range creqs {
				if req.Type != "exec" {
					req.Reply(false, nil)
					continue
				}
				req.Reply(true, nil)
				io.WriteString(ch, "partial output\n")
			}
		}()
	}
}
