package bot

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"gastos/internal/core"
)

// Argument parsing errors carry the usage hint the bot replies with.
var (
	errExpenseUsage = errors.New("usá: /g monto [categoría] descripción\nEj: /g 12.500,50 vinos malbec para el asado")
	errPaymentUsage = errors.New("usá: /pago monto [descripción]\nEj: /pago 10.000 te devuelvo lo del super")
	errFindUsage    = errors.New("usá: /find texto [YYYY-MM]\nEj: /find pizza 2026-07")
	errEditUsage    = errors.New("usá: /edit id monto\nEj: /edit a1b2c3 15.000")
	errDelUsage     = errors.New("usá: /del id\nEl id aparece en /last")
	errLastUsage    = errors.New("usá: /last [cantidad]\nEj: /last 10")
)

const (
	defaultLastCount = 5
	maxLastCount     = 50
)

type expenseArgs struct {
	Amount      string
	Category    string // empty means infer from description
	Description string
}

// parseExpenseArgs splits "/g monto [categoría] descripción". The second
// token is a category only when it names a known one and a description
// still follows.
func parseExpenseArgs(args string) (expenseArgs, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return expenseArgs{}, errExpenseUsage
	}

	out := expenseArgs{Amount: fields[0]}
	rest := fields[1:]
	if len(rest) >= 2 && core.ValidCategory(strings.ToLower(rest[0])) {
		out.Category = strings.ToLower(rest[0])
		rest = rest[1:]
	}
	out.Description = strings.Join(rest, " ")
	return out, nil
}

type paymentArgs struct {
	Amount      string
	Description string
}

func parsePaymentArgs(args string) (paymentArgs, error) {
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return paymentArgs{}, errPaymentUsage
	}
	return paymentArgs{
		Amount:      fields[0],
		Description: strings.Join(fields[1:], " "),
	}, nil
}

var monthSelector = regexp.MustCompile(`^\d{4}-\d{2}$`)

type findArgs struct {
	Term  string
	Month string // empty means current month
}

// parseFindArgs splits "/find texto [YYYY-MM]". Only a trailing
// YYYY-MM token counts as a month; bare numbers stay in the term.
func parseFindArgs(args string) (findArgs, error) {
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return findArgs{}, errFindUsage
	}

	out := findArgs{}
	if len(fields) >= 2 && monthSelector.MatchString(fields[len(fields)-1]) {
		out.Month = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}
	out.Term = strings.Join(fields, " ")
	return out, nil
}

// parseLastArgs resolves "/last [cantidad]", clamping to [1, 50].
func parseLastArgs(args string) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return defaultLastCount, nil
	}
	n, err := strconv.Atoi(args)
	if err != nil {
		return 0, errLastUsage
	}
	if n < 1 {
		n = 1
	}
	if n > maxLastCount {
		n = maxLastCount
	}
	return n, nil
}

type editArgs struct {
	ID     string
	Amount string
}

func parseEditArgs(args string) (editArgs, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return editArgs{}, errEditUsage
	}
	return editArgs{ID: fields[0], Amount: fields[1]}, nil
}

func parseDelArgs(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return "", errDelUsage
	}
	return fields[0], nil
}

// splitCommand separates "/cmd@BotName rest of args" into the bare
// command and its argument string.
func splitCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	cmd = text
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		cmd, args = text[:i], strings.TrimSpace(text[i+1:])
	}
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), args
}
