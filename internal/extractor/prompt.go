package extractor

import (
	"fmt"
	"strings"
	"time"

	"fiado/internal/dateutils"
	"fiado/internal/models"
)

// buildPrompt assembles the instructional request for the model: the
// transaction kind, the reference date, the extraction rules and a set of
// worked examples mapping free text to exact JSON outputs. The examples use
// dates relative to today so the model learns the relative-date convention
// from the prompt itself.
func buildPrompt(text string, kind models.Kind, today time.Time) string {
	todayISO := dateutils.ToISO(today)
	yesterdayISO := dateutils.ToISO(today.AddDate(0, 0, -1))

	var b strings.Builder

	b.WriteString("Voce e um assistente especializado em extrair informacoes financeiras de texto em linguagem natural para um sistema de controle de dividas.\n")
	fmt.Fprintf(&b, "Analise o texto a seguir, que se refere a um(a) '%s', e extraia o VALOR monetario, a DATA da transacao e uma DESCRICAO.\n\n", kind)

	b.WriteString("Regras de Extracao:\n")
	b.WriteString("1. VALOR: deve ser um numero decimal. Extraia apenas o numero (ex: \"200\", \"150.75\"). Ignore \"reais\", \"R$\" e outras palavras de moeda.\n")
	b.WriteString("2. DATA:\n")
	fmt.Fprintf(&b, "   - Converta datas relativas como \"hoje\", \"ontem\", \"anteontem\" para o formato YYYY-MM-DD. Considere a data atual: %s.\n", todayISO)
	b.WriteString("   - Se for uma data especifica (ex: \"10/05/2025\"), converta para YYYY-MM-DD.\n")
	fmt.Fprintf(&b, "   - Se nenhuma data for mencionada, assuma a data de HOJE (%s).\n", todayISO)
	fmt.Fprintf(&b, "3. DESCRICAO: capture o proposito da transacao (ex: \"conserto do carro\", \"lanche\"). Se nao houver descricao clara, use \"%s\".\n\n", kind.Label())

	b.WriteString("Formato de Saida (JSON estrito):\n")
	b.WriteString("{\"valor\": <numero>, \"data\": \"<YYYY-MM-DD>\", \"descricao\": \"<texto_opcional>\"}\n\n")

	b.WriteString("Exemplos:\n")
	fmt.Fprintf(&b, "- Texto: \"Emprestei 200 reais ontem para pagar o conserto do carro\" (emprestimo)\n  JSON: {\"valor\": 200, \"data\": \"%s\", \"descricao\": \"pagar o conserto do carro\"}\n", yesterdayISO)
	fmt.Fprintf(&b, "- Texto: \"Ela pagou 150.50 reais hoje\" (pagamento)\n  JSON: {\"valor\": 150.50, \"data\": \"%s\", \"descricao\": \"Pagamento\"}\n", todayISO)
	b.WriteString("- Texto: \"emprestei 50 pila pro joao dia 10/05/2025 para o cinema\" (emprestimo)\n  JSON: {\"valor\": 50, \"data\": \"2025-05-10\", \"descricao\": \"para o cinema\"}\n")
	b.WriteString("- Texto: \"recebi 70 dela em 01-04-2025\" (pagamento)\n  JSON: {\"valor\": 70, \"data\": \"2025-04-01\", \"descricao\": \"Pagamento\"}\n")
	fmt.Fprintf(&b, "- Texto: \"R$300 para a festa de aniversario\" (emprestimo, sem data explicita)\n  JSON: {\"valor\": 300, \"data\": \"%s\", \"descricao\": \"para a festa de aniversario\"}\n", todayISO)
	fmt.Fprintf(&b, "- Texto: \"Pagou a divida de 25 pratas.\" (pagamento, sem data explicita)\n  JSON: {\"valor\": 25, \"data\": \"%s\", \"descricao\": \"Pagou a divida\"}\n\n", todayISO)

	fmt.Fprintf(&b, "Texto do usuario para '%s': %q\n", kind, text)
	b.WriteString("JSON extraido:\n")

	return b.String()
}
