// Package chat runs the interactive conversation loop for recording
// transactions in natural language.
package chat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fiado/cmd/root"
	"fiado/internal/conversation"
	"fiado/internal/dateutils"
	"fiado/internal/extracterror"
	"fiado/internal/extractor"
	"fiado/internal/models"
)

// Cmd represents the chat command
var Cmd = &cobra.Command{
	Use:   "chat",
	Short: "Record loans and payments through a natural-language dialogue",
	Long: `Starts an interactive session. Describe transactions in plain Portuguese
("emprestei 50 pra Ana ontem pro almoco") and confirm the extracted data
before anything is saved.`,
	RunE: chatFunc,
}

func chatFunc(cmd *cobra.Command, args []string) error {
	if root.Cfg.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for the chat command")
	}

	timeout := time.Duration(root.Cfg.AI.TimeoutSeconds) * time.Second
	gemini, err := extractor.NewGemini(cmd.Context(), root.Cfg.AI.APIKey, root.Cfg.AI.Model, timeout, root.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := gemini.Close(); err != nil {
			root.Log.Warnf("Failed to close AI client: %v", err)
		}
	}()

	engine := conversation.NewEngine(root.Ledger, gemini, root.Publisher)
	loop := &chatLoop{
		engine:  engine,
		session: conversation.NewSession(),
		in:      bufio.NewScanner(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
	}
	return loop.run(cmd)
}

// chatLoop owns one user's dialogue over stdin/stdout.
type chatLoop struct {
	engine  *conversation.Engine
	session *conversation.Session
	in      *bufio.Scanner
	out     io.Writer

	// people listed at flow start, selected by number
	choices []models.Person
}

func (l *chatLoop) run(cmd *cobra.Command) error {
	l.printf("Bem-vindo ao fiado!\n")
	l.printMenu()

	for {
		l.prompt()
		line, ok := l.readLine()
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}

		switch l.session.State() {
		case conversation.StateIdle:
			if quit := l.handleMenu(cmd, line); quit {
				return nil
			}
		case conversation.StateAwaitingPerson:
			l.handlePersonChoice(cmd, line)
		case conversation.StateAwaitingDetails:
			l.handleDetails(cmd, line)
		case conversation.StateAwaitingConfirmation:
			l.handleConfirmation(cmd, line)
		}
	}
}

func (l *chatLoop) handleMenu(cmd *cobra.Command, line string) (quit bool) {
	switch strings.ToLower(line) {
	case "/emprestimo", "emprestimo":
		l.startFlow(cmd, models.KindLoan)
	case "/pagamento", "pagamento":
		l.startFlow(cmd, models.KindPayment)
	case "/ajuda", "ajuda":
		l.printMenu()
	case "/sair", "sair":
		l.printf("Ate logo!\n")
		return true
	default:
		l.printf("Nao entendi. Digite 'ajuda' para ver os comandos.\n")
	}
	return false
}

func (l *chatLoop) startFlow(cmd *cobra.Command, kind models.Kind) {
	people, err := l.engine.Start(cmd.Context(), l.session, kind)
	if err != nil {
		if err == conversation.ErrNoPeople {
			l.printf("Nenhuma pessoa cadastrada. Use 'fiado people add <nome>' primeiro.\n")
			return
		}
		root.Log.WithError(err).Error("Failed to start conversation flow")
		l.printf("Nao foi possivel iniciar a operacao. Tente novamente.\n")
		return
	}

	l.choices = people
	l.printf("Para quem voce deseja registrar um %s?\n", kind)
	for i, p := range people {
		l.printf("  %d. %s\n", i+1, p.Name)
	}
	l.printf("Digite o numero, ou 'cancelar'.\n")
}

func (l *chatLoop) handlePersonChoice(cmd *cobra.Command, line string) {
	if isCancel(line) {
		l.cancel()
		return
	}

	idx, err := strconv.Atoi(line)
	if err != nil || idx < 1 || idx > len(l.choices) {
		l.printf("Opcao invalida. Digite um numero entre 1 e %d.\n", len(l.choices))
		return
	}

	person, err := l.engine.SelectPerson(cmd.Context(), l.session, l.choices[idx-1].ID)
	if err != nil {
		l.printf("Pessoa nao encontrada. Tente novamente.\n")
		return
	}

	l.printf("Registrando %s para %s.\n", l.session.Kind(), person.Name)
	l.printf("Digite os detalhes em linguagem natural. Exemplo:\n")
	if l.session.Kind() == models.KindLoan {
		l.printf("  Emprestei 150.50 reais ontem para o lanche\n")
	} else {
		l.printf("  Ela pagou 100 reais hoje referente a fatura\n")
	}
}

func (l *chatLoop) handleDetails(cmd *cobra.Command, line string) {
	if isCancel(line) {
		l.cancel()
		return
	}

	l.printf("Processando...\n")
	candidate, err := l.engine.SubmitDetails(cmd.Context(), l.session, line)
	if err != nil {
		if ee, ok := extracterror.As(err); ok {
			l.printf("Erro ao processar sua mensagem: %s.\nTente novamente com mais clareza.\n", ee.Cause)
		} else {
			l.printf("Nao foi possivel processar. Tente novamente.\n")
		}
		return
	}

	l.printf("Confirme os dados do %s:\n", candidate.Kind.Label())
	l.printf("  Pessoa:    %s\n", l.session.Person().Name)
	l.printf("  Valor:     R$ %s\n", candidate.Amount.StringFixed(2))
	l.printf("  Data:      %s\n", displayDate(candidate.Date))
	l.printf("  Descricao: %s\n", candidate.Description)
	l.printf("Salvar esta transacao? (s = salvar, e = editar novamente, c = cancelar)\n")
}

func (l *chatLoop) handleConfirmation(cmd *cobra.Command, line string) {
	switch strings.ToLower(line) {
	case "s", "salvar", "sim":
		tx, err := l.engine.Confirm(cmd.Context(), l.session)
		if err != nil {
			root.Log.WithError(err).Error("Failed to save transaction")
			l.printf("Nao foi possivel salvar a transacao. A operacao foi cancelada.\n")
			return
		}
		l.printf("%s de R$ %s registrado com sucesso!\n", tx.Kind.Label(), tx.Amount.StringFixed(2))
	case "e", "editar":
		if err := l.engine.EditAgain(l.session); err != nil {
			l.printf("Nao foi possivel editar agora.\n")
			return
		}
		l.printf("Digite os detalhes novamente.\n")
	case "c", "cancelar":
		l.cancel()
	default:
		l.printf("Responda 's' para salvar, 'e' para editar ou 'c' para cancelar.\n")
	}
}

func (l *chatLoop) cancel() {
	l.engine.Cancel(l.session)
	l.choices = nil
	l.printf("Operacao cancelada.\n")
}

func (l *chatLoop) printMenu() {
	l.printf("Comandos:\n")
	l.printf("  emprestimo - registrar um emprestimo\n")
	l.printf("  pagamento  - registrar um pagamento\n")
	l.printf("  ajuda      - mostrar esta mensagem\n")
	l.printf("  sair       - encerrar\n")
	l.printf("Durante uma operacao, digite 'cancelar' para abortar.\n")
}

func (l *chatLoop) prompt() {
	fmt.Fprint(l.out, "> ")
}

func (l *chatLoop) readLine() (string, bool) {
	if !l.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(l.in.Text()), true
}

func (l *chatLoop) printf(format string, args ...any) {
	fmt.Fprintf(l.out, format, args...)
}

func isCancel(line string) bool {
	lower := strings.ToLower(line)
	return lower == "cancelar" || lower == "/cancel"
}

// displayDate renders an ISO date as DD/MM/YYYY for the confirmation
// summary, keeping the raw value if it cannot be parsed.
func displayDate(iso string) string {
	t, err := dateutils.ParseISO(iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
