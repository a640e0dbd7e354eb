package runtime

import (
	"bufio"
	"context"
	"log/slog"
	"minichat/contract"
	"minichat/domain"
	"minichat/errors"
	"minichat/moderation"
	"minichat/observability"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

// Session owns one client connection: the handshake, the read loop and the
// outbound queue. Exactly one goroutine reads from the stream; writes from
// other sessions arrive through Send, which only enqueues. A dedicated write
// pump drains the queue, so routing never waits on this client's socket.
//
// The stream is released by the write pump once the quit channel closes,
// after the pending queue has been drained. Close is idempotent.
type Session struct {
	id           uuid.UUID
	conn         net.Conn
	log          *slog.Logger
	registry     contract.IRegistry
	moderator    *moderation.Moderator
	monitoring   *observability.MonitoringManager
	out          chan string
	quit         chan struct{}
	closeOnce    sync.Once
	readTimeout  time.Duration
	writeTimeout time.Duration

	// mu orders registration against teardown: Close runs concurrently with
	// the handshake (context watcher, write pump error path) and must observe
	// a registered name, while a session already torn down must never
	// register one.
	mu       sync.Mutex
	closed   bool
	username string
}

var _ contract.LineSink = (*Session)(nil)

// maxLineBytes caps one inbound line. The default scanner buffer would drop
// the session on anything over 64KB.
const maxLineBytes = 1 << 20

func NewSession(conn net.Conn, registry contract.IRegistry, moderator *moderation.Moderator,
	monitoring *observability.MonitoringManager, bufferSize int,
	readTimeout, writeTimeout time.Duration, log *slog.Logger) *Session {
	id := uuid.New()
	return &Session{
		id:           id,
		conn:         conn,
		log:          log.With("session", id.String()),
		registry:     registry,
		moderator:    moderator,
		monitoring:   monitoring,
		out:          make(chan string, bufferSize),
		quit:         make(chan struct{}),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Send enqueues one frame for this client. It never blocks: a closed session
// or a full queue is reported as an error and the caller accounts the drop.
func (s *Session) Send(line string) error {
	select {
	case <-s.quit:
		return errors.ErrSessionClosed
	default:
	}
	select {
	case s.out <- line:
		return nil
	default:
		return errors.ErrQueueFull
	}
}

// Run drives the connection from handshake to close. It returns when the
// client disconnects, sends /quit, the context is canceled or the stream
// faults. A fault here is fatal to this connection only.
func (s *Session) Run(ctx context.Context) {
	defer s.Close()
	go s.writePump()
	go func() {
		// Unblock the read loop on shutdown by releasing the stream.
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.quit:
		}
	}()

	reader := bufio.NewScanner(s.conn)
	reader.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !s.handshake(reader) {
		return
	}

	_ = s.Send(domain.Welcome(s.username))
	s.log.Info("Participant registered", "username", s.username)

	for {
		line, ok := s.readLine(reader)
		if !ok {
			if err := reader.Err(); err != nil {
				s.log.Warn("Stream fault", "username", s.username, "error", err)
			} else {
				s.log.Info("Participant disconnected", "username", s.username)
			}
			return
		}
		if !s.dispatch(domain.Parse(line)) {
			return
		}
	}
}

// Close deregisters the username (which also removes it from every group),
// then lets the write pump drain and release the stream. Safe to call from
// any goroutine, any number of times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		username := s.username
		s.mu.Unlock()

		if username != "" {
			s.registry.Deregister(username)
		}
		close(s.quit)
		s.monitoring.IncrConnectionsClosed()
	})
}

// handshake prompts until the client supplies a free username or goes away.
// Registration is atomic in the registry: under concurrent attempts at most
// one connection wins a given name.
func (s *Session) handshake(reader *bufio.Scanner) bool {
	for {
		if err := s.Send(domain.PromptUsername); err != nil {
			return false
		}
		candidate, ok := s.readLine(reader)
		if !ok {
			return false
		}
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			s.monitoring.IncrHandshakeRetries()
			continue
		}
		if err := s.register(candidate); err != nil {
			if err == errors.ErrSessionClosed {
				return false
			}
			s.monitoring.IncrHandshakeRetries()
			if err := s.Send(domain.NoticeNameTaken); err != nil {
				return false
			}
			continue
		}
		return true
	}
}

// register claims the candidate name and records it in one step, so a
// concurrent Close either sees no name (and the registry was never touched)
// or the registered one (and deregisters it). A session already torn down
// must not register: the name would stay locked forever with nobody left to
// release it.
func (s *Session) register(candidate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrSessionClosed
	}
	if err := s.registry.Register(candidate, s); err != nil {
		return err
	}
	s.username = candidate
	return nil
}

// dispatch executes one parsed command. It returns false when the session
// must terminate. The type switch is exhaustive over domain.Command.
func (s *Session) dispatch(cmd domain.Command) bool {
	switch c := cmd.(type) {
	case domain.QuitCommand:
		_ = s.Send(domain.NoticeGoodbye)
		return false
	case domain.SendUserCommand:
		s.registry.SendToUser(c.Recipient, domain.FormatPrivateMessage(s.username, s.sanitize(c.Body)), s.username)
	case domain.CreateCommand:
		s.registry.CreateGroup(c.Group, s.username)
		_ = s.Send(domain.GroupCreated(c.Group))
	case domain.JoinCommand:
		s.registry.JoinGroup(c.Group, s.username)
	case domain.LeaveCommand:
		s.registry.LeaveGroup(c.Group, s.username)
	case domain.SendGroupCommand:
		s.registry.SendToGroup(c.Group, s.sanitize(c.Body), s.username)
	case domain.ListUsersCommand:
		_ = s.Send(s.registry.ListUsers())
	case domain.ListGroupsCommand:
		_ = s.Send(s.registry.ListGroups())
	case domain.BroadcastCommand:
		// The gate runs here, at send time: a member of any named group may
		// not originate lobby traffic at all.
		if s.registry.InOtherGroups(s.username) {
			_ = s.Send(domain.NoticeDefaultConflict)
			return true
		}
		s.registry.SendToGroup(domain.DefaultGroup, s.sanitize(c.Body), s.username)
	case domain.BareSlashCommand:
		_ = s.Send(domain.NoticeBareSlash)
	case domain.MalformedCommand:
		_ = s.Send(c.Usage)
	case domain.UnknownCommand:
		_ = s.Send(domain.NoticeUnknownCommand)
	}
	return true
}

// sanitize runs the message body through the censor when moderation is
// enabled. Notices and command echoes never pass through here.
func (s *Session) sanitize(body string) string {
	if s.moderator == nil {
		return body
	}
	censored, words := s.moderator.Censor(body)
	if len(words) > 0 {
		s.monitoring.IncrCensoredMessages()
		info := whatlanggo.Detect(body)
		s.log.Warn("Censored message",
			"username", s.username,
			"lang", info.Lang.Iso6391(),
			"words", len(words))
	}
	return censored
}

func (s *Session) readLine(reader *bufio.Scanner) (string, bool) {
	if s.readTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
	if !reader.Scan() {
		return "", false
	}
	return strings.TrimRight(reader.Text(), "\r"), true
}

// writePump is the only writer of the stream and the one that closes it.
// On quit it drains whatever is already queued (the farewell notice relies
// on this) before releasing the connection.
func (s *Session) writePump() {
	for {
		select {
		case <-s.quit:
			for {
				select {
				case line := <-s.out:
					if err := s.writeLine(line); err != nil {
						_ = s.conn.Close()
						return
					}
				default:
					_ = s.conn.Close()
					return
				}
			}
		case line := <-s.out:
			if err := s.writeLine(line); err != nil {
				s.log.Debug("Write failed, closing session", "error", err)
				s.Close()
				_ = s.conn.Close()
				return
			}
		}
	}
}

func (s *Session) writeLine(line string) error {
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	_, err := s.conn.Write([]byte(line + "\n"))
	return err
}
