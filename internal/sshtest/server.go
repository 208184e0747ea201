// Package sshtest provides an in-process SSH server for tests, in the spirit of
// net/http/httptest. It accepts password auth and answers "exec" requests
// through a Handler.
package sshtest

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/ssh"
)

// Reply describes how the server answers one exec request.
type Reply struct {
	Stdout     []byte
	Stderr     []byte
	ExitStatus int
	Signal     string // e.g. "KILL"; sent as exit-signal instead of exit-status
	NoStatus   bool   // close the channel without any exit status
	Hang       bool   // never answer until the server or connection closes
}

// Handler answers the command of an exec request.
type Handler func(command string) Reply

// Script returns a Handler answering from a fixed table; unknown commands get
// exit status 127.
func Script(replies map[string]Reply) Handler {
	return func(command string) Reply {
		if r, ok := replies[command]; ok {
			return r
		}
		return Reply{Stderr: []byte("command not found\n"), ExitStatus: 127}
	}
}

// Server is a running test server bound to a loopback port.
type Server struct {
	Host     string
	Port     int
	User     string
	Password string
	Signer   ssh.Signer

	handler  Handler
	listener net.Listener
	done     chan struct{}
	wg       sync.WaitGroup

	conns    atomic.Int64
	mu       sync.Mutex
	commands []string
}

// New starts a server with a fresh ed25519 host key.
func New(user, password string, h Handler) (*Server, error) {
	signer, err := NewSigner()
	if err != nil {
		return nil, err
	}
	return NewWithSigner(user, password, signer, h)
}

// NewSigner generates an ed25519 host key.
func NewSigner() (ssh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return ssh.NewSignerFromKey(priv)
}

// NewWithSigner starts a server presenting the given host key.
func NewWithSigner(user, password string, signer ssh.Signer, h Handler) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)

	s := &Server{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		Signer:   signer,
		handler:  h,
		listener: ln,
		done:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Connections reports how many TCP connections were accepted.
func (s *Server) Connections() int {
	return int(s.conns.Load())
}

// Commands returns the exec commands received so far.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Close stops accepting connections and releases hanging handlers.
func (s *Server) Close() error {
	close(s.done)
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *Server) config() *ssh.ServerConfig {
	cfg := &ssh.ServerConfig{
		PasswordCallback: func(meta ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if meta.User() == s.User && string(pass) == s.Password {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", meta.User())
		},
	}
	cfg.AddHostKey(s.Signer)
	return cfg
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.conns.Add(1)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	sconn, chans, reqs, err := ssh.NewServerConn(conn, s.config())
	if err != nil {
		return
	}
	defer sconn.Close()
	go ssh.DiscardRequests(reqs)

	// 服务器关闭时断开连接，让挂起的 handler 退出
	go func() {
		<-s.done
		_ = sconn.Close()
	}()

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "only session channels are supported")
			continue
		}
		ch, chReqs, err := newCh.Accept()
		if err != nil {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleSession(ch, chReqs)
		}()
	}
}

func (s *Server) handleSession(ch ssh.Channel, reqs <-chan *ssh.Request) {
	defer ch.Close()
	for req := range reqs {
		if req.Type != "exec" {
			_ = req.Reply(false, nil)
			continue
		}
		var payload struct{ Command string }
		if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
			_ = req.Reply(false, nil)
			continue
		}
		_ = req.Reply(true, nil)

		s.mu.Lock()
		s.commands = append(s.commands, payload.Command)
		s.mu.Unlock()

		r := s.handler(payload.Command)
		if r.Hang {
			<-s.done
			return
		}
		_, _ = ch.Write(r.Stdout)
		_, _ = ch.Stderr().Write(r.Stderr)
		_ = ch.CloseWrite()
		switch {
		case r.NoStatus:
		case r.Signal != "":
			msg := struct {
				Signal     string
				CoreDumped bool
				Error      string
				Lang       string
			}{Signal: r.Signal}
			_, _ = ch.SendRequest("exit-signal", false, ssh.Marshal(&msg))
		default:
			_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(&struct{ Status uint32 }{uint32(r.ExitStatus)}))
		}
		return
	}
}
