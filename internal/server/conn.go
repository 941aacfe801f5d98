package server

import (
	"bufio"
	"net"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/passsecure/passsecure/internal/protocol"
	"github.com/passsecure/passsecure/internal/session"
)

// handle runs the read-parse-dispatch-respond loop for one connection.
// It blocks its worker until the peer disconnects, sends QUIT, or the
// transport fails.
func (s *Server) handle(conn net.Conn) {
	s.active.Add(1)
	defer s.active.Add(-1)

	log := s.log.With(
		zap.String("conn", uuid.NewString()),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	log.Info("client connected")

	sess := session.New(s.store, s.engine, s.registry)
	defer func() {
		// Release the username claim even when the peer vanishes
		// without an explicit DISCONNECT.
		sess.Disconnect()
		conn.Close()
		log.Info("connection closed")
	}()

	scanner := bufio.NewScanner(conn)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		// Tolerate CRLF line endings from naive clients.
		line := strings.TrimSuffix(scanner.Text(), "\r")
		quit, err := s.dispatch(sess, writer, line, log)
		if err != nil {
			log.Warn("write failed", zap.Error(err))
			return
		}
		if quit {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("read failed", zap.Error(err))
	}
}

// dispatch handles one line: parse, run the mapped session operation,
// answer OK or NOK. Business failures become NOK responses and never
// end the loop; the returned error is transport-level only.
func (s *Server) dispatch(sess *session.Session, w *bufio.Writer, line string, log *zap.Logger) (quit bool, err error) {
	cmd, parseErr := protocol.Parse(line)
	if parseErr != nil {
		log.Debug("rejected line", zap.String("reason", protocol.KindOf(parseErr)))
		return false, writeNOK(w, parseErr)
	}

	switch cmd.Type {
	case protocol.TypeRegister:
		err = sess.Register(cmd.GetString("username"), cmd.GetString(protocol.ArgPassword))
	case protocol.TypeLogin:
		err = sess.Login(cmd.GetString("username"), cmd.GetString(protocol.ArgPassword))
	case protocol.TypeAdd:
		err = sess.Add(cmd.GetString("name"), cmd.GetString(protocol.ArgPassword), cmd.GetBool("overwrite"))
	case protocol.TypeGet:
		var payload string
		payload, err = sess.Get(cmd.GetString("name"))
		if err == nil {
			// The only two-line response: OK, then the raw
			// (possibly still-encrypted) payload.
			if werr := writeCommand(w, protocol.New(protocol.TypeOK)); werr != nil {
				return false, werr
			}
			return false, writeLine(w, payload)
		}
	case protocol.TypeRemove:
		err = sess.Remove(cmd.GetString("name"))
	case protocol.TypeDisconnect:
		sess.Disconnect()
	case protocol.TypeQuit:
		return true, writeCommand(w, protocol.New(protocol.TypeOK))
	default:
		// PING and any other well-formed type without server-side
		// behavior is simply acknowledged.
	}

	if err != nil {
		log.Debug("command refused",
			zap.String("type", cmd.Type.String()),
			zap.String("reason", protocol.KindOf(err)))
		return false, writeNOK(w, err)
	}
	return false, writeCommand(w, protocol.New(protocol.TypeOK))
}

// writeNOK answers with the failure kind of err as the message.
func writeNOK(w *bufio.Writer, err error) error {
	nok := protocol.NewWithArgs(protocol.TypeNOK, map[string]string{
		protocol.ArgMessage: protocol.KindOf(err),
	})
	return writeCommand(w, nok)
}

func writeCommand(w *bufio.Writer, cmd *protocol.Command) error {
	return writeLine(w, cmd.String())
}

func writeLine(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line + "\n"); err != nil {
		return err
	}
	return w.Flush()
}
