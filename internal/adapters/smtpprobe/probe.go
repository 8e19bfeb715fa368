package smtpprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/email-verify-api/internal/core"
	"go.uber.org/zap"
)

var (
	// ErrEmptyHost is returned when Probe is called without an exchange
	ErrEmptyHost = errors.New("mx host is empty")
	// ErrEmptyEmail is returned when Probe is called without an address
	ErrEmptyEmail = errors.New("email is empty")
)

const (
	MsgMailboxAccepted = "Mailbox exists and accepts mail"
	MsgMailboxRejected = "Mailbox does not exist"
)

// Verdict labels reported to the metrics recorder
const (
	VerdictAccepted  = "accepted"
	VerdictRejected  = "rejected"
	VerdictTimeout   = "timeout"
	VerdictConnError = "conn_error"
)

// ResultRecorder counts probe verdicts
type ResultRecorder interface {
	IncProbeResult(verdict string)
}

// DefaultTimeout bounds a probe when no positive timeout is configured
const DefaultTimeout = 10 * time.Second

// Config holds the probe settings
type Config struct {
	Port         int
	Timeout      time.Duration
	HeloIdentity string
	MailFrom     string
}

// Prober checks mailbox existence with a HELO, MAIL FROM, RCPT TO exchange.
// No message is ever sent.
type Prober struct {
	dialer  Dialer
	cfg     Config
	logger  *zap.Logger
	metrics ResultRecorder
}

// NewProber creates a new SMTP prober
func NewProber(dialer Dialer, cfg Config, logger *zap.Logger, metrics ResultRecorder) *Prober {
	if cfg.Port == 0 {
		cfg.Port = 25
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Prober{
		dialer:  dialer,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Probe connects to mxHost and asks whether it accepts mail for email.
// Timeouts and transport failures are reported as inconclusive results.
func (p *Prober) Probe(ctx context.Context, email, mxHost string) (core.SMTPResult, error) {
	if mxHost == "" {
		return core.SMTPResult{}, ErrEmptyHost
	}
	if email == "" {
		return core.SMTPResult{}, ErrEmptyEmail
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	address := net.JoinHostPort(mxHost, strconv.Itoa(p.cfg.Port))
	conn, err := p.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		if ctx.Err() != nil {
			return p.finish(mxHost, VerdictTimeout, core.SMTPTimedOut()), nil
		}
		return p.finish(mxHost, VerdictConnError, core.SMTPConnectionFailed(err)), nil
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	s := &session{
		conn:     conn,
		state:    stateAwaitGreeting,
		helo:     p.cfg.HeloIdentity,
		mailFrom: p.cfg.MailFrom,
		rcptTo:   email,
	}
	verdict, result := s.run(ctx)
	return p.finish(mxHost, verdict, result), nil
}

func (p *Prober) finish(mxHost, verdict string, result core.SMTPResult) core.SMTPResult {
	p.logger.Debug("SMTP probe finished",
		zap.String("mx_host", mxHost),
		zap.String("verdict", verdict),
		zap.String("error", result.Error))
	if p.metrics != nil {
		p.metrics.IncProbeResult(verdict)
	}
	return result
}

type state int

const (
	stateAwaitGreeting state = iota
	stateAwaitHeloAck
	stateAwaitMailAck
	stateAwaitRcptVerdict
)

func (s state) String() string {
	switch s {
	case stateAwaitGreeting:
		return "await_greeting"
	case stateAwaitHeloAck:
		return "await_helo_ack"
	case stateAwaitMailAck:
		return "await_mail_ack"
	case stateAwaitRcptVerdict:
		return "await_rcpt_verdict"
	default:
		return "unknown"
	}
}

type chunk struct {
	data []byte
	err  error
}

// session is one probe conversation. buf holds only the bytes received
// since the last state transition.
type session struct {
	conn     net.Conn
	state    state
	buf      []byte
	helo     string
	mailFrom string
	rcptTo   string
}

func (s *session) run(ctx context.Context) (string, core.SMTPResult) {
	done := make(chan struct{})
	defer close(done)

	reads := make(chan chunk)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := s.conn.Read(buf)
			c := chunk{data: append([]byte(nil), buf[:n]...), err: err}
			select {
			case reads <- c:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return VerdictTimeout, core.SMTPTimedOut()
		case c := <-reads:
			if len(c.data) > 0 {
				s.buf = append(s.buf, c.data...)
				verdict, result, finished, err := s.advance()
				if err != nil {
					return s.transportFailure(ctx, err)
				}
				if finished {
					s.quit()
					return verdict, result
				}
			}
			if c.err != nil {
				if errors.Is(c.err, io.EOF) {
					c.err = fmt.Errorf("connection closed in state %s", s.state)
				}
				return s.transportFailure(ctx, c.err)
			}
		}
	}
}

// advance consumes reply lines for the current state. It stops at the
// first transition, dropping whatever else the buffer held. A trailing line
// without a newline counts once its code is followed by a space.
func (s *session) advance() (string, core.SMTPResult, bool, error) {
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(s.buf[:i]), "\r")
		s.buf = s.buf[i+1:]

		code, ok := replyCode(line)
		if !ok {
			continue
		}
		if verdict, result, acted, err := s.react(code); acted || err != nil {
			return verdict, result, verdict != "", err
		}
	}

	tail := strings.TrimRight(string(s.buf), "\r")
	if len(tail) < 4 {
		return "", core.SMTPResult{}, false, nil
	}
	code, ok := replyCode(tail)
	if !ok {
		return "", core.SMTPResult{}, false, nil
	}
	verdict, result, _, err := s.react(code)
	return verdict, result, verdict != "", err
}

// react applies code to the current state. acted reports a transition or a
// verdict; a non-empty verdict ends the session.
func (s *session) react(code int) (verdict string, result core.SMTPResult, acted bool, err error) {
	switch s.state {
	case stateAwaitGreeting:
		if code == 220 {
			return "", core.SMTPResult{}, true, s.transition(stateAwaitHeloAck, "HELO "+s.helo)
		}
	case stateAwaitHeloAck:
		if code == 250 {
			return "", core.SMTPResult{}, true, s.transition(stateAwaitMailAck, "MAIL FROM:<"+s.mailFrom+">")
		}
	case stateAwaitMailAck:
		if code == 250 {
			return "", core.SMTPResult{}, true, s.transition(stateAwaitRcptVerdict, "RCPT TO:<"+s.rcptTo+">")
		}
	case stateAwaitRcptVerdict:
		switch code {
		case 250:
			return VerdictAccepted, core.SMTPResult{Valid: true, Message: MsgMailboxAccepted}, true, nil
		case 550, 551:
			return VerdictRejected, core.SMTPResult{Valid: false, Message: MsgMailboxRejected}, true, nil
		}
	}
	return "", core.SMTPResult{}, false, nil
}

func (s *session) transition(next state, command string) error {
	s.state = next
	s.buf = nil
	if _, err := io.WriteString(s.conn, command+"\r\n"); err != nil {
		return fmt.Errorf("failed to write command in state %s: %w", next, err)
	}
	return nil
}

func (s *session) transportFailure(ctx context.Context, err error) (string, core.SMTPResult) {
	var netErr net.Error
	if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return VerdictTimeout, core.SMTPTimedOut()
	}
	return VerdictConnError, core.SMTPConnectionFailed(err)
}

func (s *session) quit() {
	_, _ = io.WriteString(s.conn, "QUIT\r\n")
}

// replyCode returns the status code of the last line of a reply. Continuation
// lines ("250-...") are skipped so multi-line replies count once.
func replyCode(line string) (int, bool) {
	if len(line) < 3 {
		return 0, false
	}
	if len(line) > 3 && line[3] != ' ' {
		return 0, false
	}
	code, err := strconv.Atoi(line[:3])
	if err != nil || code < 100 {
		return 0, false
	}
	return code, true
}
