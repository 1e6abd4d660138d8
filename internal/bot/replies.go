package bot

import (
	"fmt"
	"html"
	"strings"

	"gastos/internal/core"
	"gastos/internal/services"
)

// All user-facing text is Spanish (es-AR) and Telegram HTML.

const notAllowedReply = "No estás autorizado para usar este bot."

const helpReply = `<b>Comandos</b>
/g monto [categoría] descripción — registrar un gasto
/pago monto [descripción] — registrar un pago de deuda
/month [mes] — total del mes
/summary [mes] — total del mes por categoría
/balance — quién le debe a quién este mes
/year [año] — totales de cada mes del año
/find texto [YYYY-MM] — buscar gastos
/last [cantidad] — últimos gastos
/edit id monto — corregir el monto de un gasto
/del id — borrar un gasto
/csv [mes] — exportar el mes en CSV

Montos: 12500, 12.500, 12500,50 y 12.500,50 valen lo mismo.
Categorías: ` + "<i>%s</i>"

func helpText() string {
	return fmt.Sprintf(helpReply, strings.Join(core.Categories(), ", "))
}

func welcomeText(name string) string {
	return fmt.Sprintf("Hola %s 👋 Anotá gastos con /g y mirá /help para el resto.", html.EscapeString(name))
}

const askNameReply = "¡Hola! ¿Cómo te llamás? Mandame tu nombre para registrarte."

func nameSavedText(name string) string {
	return fmt.Sprintf("Listo %s, ya podés anotar gastos con /g.", html.EscapeString(name))
}

func money(cents int64) string {
	return "$" + core.FormatAmount(cents)
}

func expenseSavedText(e core.LedgerEntry, payerName string) string {
	return fmt.Sprintf("✅ Gasto de %s en <b>%s</b>: %s\n<i>%s</i>\nID: <code>%s</code>",
		html.EscapeString(payerName), e.Category, money(e.AmountCents),
		html.EscapeString(e.Description), e.ID)
}

func paymentSavedText(e core.LedgerEntry, payerName string) string {
	return fmt.Sprintf("✅ Pago de deuda de %s: %s\n<i>%s</i>\nID: <code>%s</code>",
		html.EscapeString(payerName), money(e.AmountCents),
		html.EscapeString(e.Description), e.ID)
}

func monthTotalText(label string, cents int64) string {
	if cents == 0 {
		return fmt.Sprintf("No hay gastos en %s.", label)
	}
	return fmt.Sprintf("Total de <b>%s</b>: %s", label, money(cents))
}

func summaryText(s services.MonthSummary) string {
	if s.TotalCents == 0 {
		return fmt.Sprintf("No hay gastos en %s.", s.Period.Label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> — total %s\n", s.Period.Label, money(s.TotalCents))
	for _, c := range s.ByCategory {
		pct := c.Cents * 100 / s.TotalCents
		fmt.Fprintf(&b, "\n%s: %s (%d%%)", c.Category, money(c.Cents), pct)
	}
	return b.String()
}

func yearText(summaries []services.MonthSummary, year int) string {
	var total int64
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Gastos %d</b>\n", year)
	for _, s := range summaries {
		total += s.TotalCents
		if s.TotalCents == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %s", s.Period.Label, money(s.TotalCents))
	}
	if total == 0 {
		return fmt.Sprintf("No hay gastos en %d.", year)
	}
	fmt.Fprintf(&b, "\n\nTotal: %s", money(total))
	return b.String()
}

// balanceText renders the month's settlement state. A nil result means
// the month has no entries yet.
func balanceText(r *core.BalanceResult, label string) string {
	if r == nil {
		return fmt.Sprintf("Todavía no hay gastos en %s.", label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Balance de %s</b>\n", label)
	fmt.Fprintf(&b, "\n%s pagó %s", html.EscapeString(r.PartyA.DisplayName()), money(r.PaidA))
	fmt.Fprintf(&b, "\n%s pagó %s", html.EscapeString(r.PartyB.DisplayName()), money(r.PaidB))
	if r.SettledByA > 0 {
		fmt.Fprintf(&b, "\n%s devolvió %s", html.EscapeString(r.PartyA.DisplayName()), money(r.SettledByA))
	}
	if r.SettledByB > 0 {
		fmt.Fprintf(&b, "\n%s devolvió %s", html.EscapeString(r.PartyB.DisplayName()), money(r.SettledByB))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", money(r.Total))

	switch {
	case r.Settled():
		b.WriteString("\nEstán a mano 🎉")
	case r.Net.IsPositive():
		fmt.Fprintf(&b, "\n<b>%s le debe %s a %s</b>",
			html.EscapeString(r.PartyB.DisplayName()),
			money(r.Net.Round(0).IntPart()),
			html.EscapeString(r.PartyA.DisplayName()))
	default:
		fmt.Fprintf(&b, "\n<b>%s le debe %s a %s</b>",
			html.EscapeString(r.PartyA.DisplayName()),
			money(r.Net.Abs().Round(0).IntPart()),
			html.EscapeString(r.PartyB.DisplayName()))
	}

	if r.OverflowWarning != "" {
		b.WriteString("\n\n⚠️ " + r.OverflowWarning)
	}
	return b.String()
}

func entriesText(title string, entries []core.LedgerEntry, members map[string]core.Member) string {
	if len(entries) == 0 {
		return "No encontré gastos."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", title)
	for _, e := range entries {
		kind := ""
		if e.Kind.IsDebtPayment() {
			kind = " (pago de deuda)"
		}
		fmt.Fprintf(&b, "\n%s — %s%s\n<i>%s</i> — %s\nID: <code>%s</code>\n",
			e.Date.Format("02/01"), money(e.AmountCents), kind,
			html.EscapeString(e.Description),
			html.EscapeString(members[e.PaidBy].DisplayName()), e.ID)
	}
	return b.String()
}

func deletedText(id string) string {
	return fmt.Sprintf("🗑 Gasto <code>%s</code> borrado.", id)
}

func updatedText(e core.LedgerEntry) string {
	return fmt.Sprintf("✏️ Gasto <code>%s</code> ahora vale %s.", e.ID, money(e.AmountCents))
}

const notFoundReply = "No encontré ese gasto. El id aparece en /last."

const unknownCommandReply = "No conozco ese comando. Probá /help."
