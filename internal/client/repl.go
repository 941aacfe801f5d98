// Package client implements the interactive REPL that drives the wire
// protocol against a running server. Input lines are parsed with the
// same codec the server uses, sensitive fields are encrypted locally
// before serialization, and server responses decide accept or reject.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/passsecure/passsecure/internal/cipher"
	"github.com/passsecure/passsecure/internal/passgen"
	"github.com/passsecure/passsecure/internal/protocol"
)

// REPL reads commands from input, exchanges them with the server over
// conn and prints results to output.
type REPL struct {
	conn   io.ReadWriter
	input  io.Reader
	output io.Writer
	engine *cipher.Engine
}

// New constructs a REPL. engine performs the local field encryption
// and decryption configured by the reserved cipher-password arguments.
func New(conn io.ReadWriter, input io.Reader, output io.Writer, engine *cipher.Engine) *REPL {
	return &REPL{conn: conn, input: input, output: output, engine: engine}
}

// Run executes the loop until QUIT, end of input, or an unrecoverable
// socket failure. Business failures are printed and the loop continues.
func (r *REPL) Run() error {
	r.banner()

	keyboard := bufio.NewScanner(r.input)
	serverIn := bufio.NewScanner(r.conn)
	serverOut := bufio.NewWriter(r.conn)
	interactive := isTerminal(r.input)

	for {
		if interactive {
			fmt.Fprint(r.output, "passsecure> ")
		}
		if !keyboard.Scan() {
			return keyboard.Err()
		}

		quit, err := r.eval(keyboard.Text(), serverIn, serverOut)
		if errors.Is(err, protocol.ErrSocket) {
			fmt.Fprintln(r.output, color.RedString("connection lost: %v", err))
			return err
		}
		if err != nil {
			fmt.Fprintln(r.output, color.RedString(protocol.KindOf(err)))
			continue
		}
		if quit {
			return nil
		}
	}
}

// eval handles one input line.
func (r *REPL) eval(line string, serverIn *bufio.Scanner, serverOut *bufio.Writer) (quit bool, err error) {
	cmd, err := protocol.Parse(line)
	if err != nil {
		return false, err
	}

	switch cmd.Type {
	case protocol.TypePing:
		if err := r.send(cmd, serverIn, serverOut); err != nil {
			return false, err
		}
		fmt.Fprintln(r.output, "PONG")

	case protocol.TypeRegister, protocol.TypeLogin, protocol.TypeDisconnect,
		protocol.TypeAdd, protocol.TypeRemove:
		if err := r.send(cmd, serverIn, serverOut); err != nil {
			return false, err
		}
		fmt.Fprintln(r.output, color.GreenString("OK"))

	case protocol.TypeGet:
		if err := r.send(cmd, serverIn, serverOut); err != nil {
			return false, err
		}
		// GET is the only two-line response: the payload follows OK.
		if !serverIn.Scan() {
			return false, fmt.Errorf("%w: missing payload", protocol.ErrBadResponse)
		}
		password, err := cmd.Decrypt(r.engine, serverIn.Text())
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.output, "Password : "+password)

	case protocol.TypeGenerate:
		return false, r.generate(cmd, serverIn, serverOut)

	case protocol.TypeHelp:
		fmt.Fprintln(r.output, helpText)

	case protocol.TypeQuit:
		return true, nil

	default:
		return false, protocol.ErrInvalidCommand
	}

	return false, nil
}

// generate runs the local password generator and, when the store flag
// is set, synthesizes an ADD carrying the fresh password.
func (r *REPL) generate(cmd *protocol.Command, serverIn *bufio.Scanner, serverOut *bufio.Writer) error {
	password, err := passgen.Generate(cmd.GetInt("length"), cmd.GetBool("special"))
	if err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	fmt.Fprintln(r.output, "Password : "+password)

	if !cmd.GetBool("store") {
		return nil
	}

	arguments := cmd.Arguments
	arguments[protocol.ArgPassword] = password
	add := protocol.NewWithArgs(protocol.TypeAdd, arguments)
	if err := r.send(add, serverIn, serverOut); err != nil {
		return err
	}
	fmt.Fprintln(r.output, color.GreenString("OK"))
	return nil
}

// send encrypts the command, writes it and checks the response. A NOK
// response surfaces its message as the error.
func (r *REPL) send(cmd *protocol.Command, serverIn *bufio.Scanner, serverOut *bufio.Writer) error {
	if err := cmd.Encrypt(r.engine); err != nil {
		return err
	}

	if _, err := serverOut.WriteString(cmd.String() + "\n"); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrSocket, err)
	}
	if err := serverOut.Flush(); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrSocket, err)
	}

	if !serverIn.Scan() {
		if err := serverIn.Err(); err != nil {
			return fmt.Errorf("%w: %v", protocol.ErrSocket, err)
		}
		return fmt.Errorf("%w: connection closed", protocol.ErrSocket)
	}

	response, err := protocol.Parse(serverIn.Text())
	if err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrBadResponse, err)
	}
	switch response.Type {
	case protocol.TypeOK:
		return nil
	case protocol.TypeNOK:
		fmt.Fprintln(r.output, color.RedString("Error: %s", response.GetString(protocol.ArgMessage)))
		return protocol.ErrBadResponse
	default:
		return protocol.ErrBadResponse
	}
}

// banner prints the startup screen.
func (r *REPL) banner() {
	figure.Write(r.output, figure.NewFigure("pass-secure", "", true))
	fmt.Fprintln(r.output, "Type \"HELP\" to get a list of commands")
	fmt.Fprintln(r.output)
}

// isTerminal reports whether in is an interactive terminal, deciding
// whether a prompt is printed.
func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
