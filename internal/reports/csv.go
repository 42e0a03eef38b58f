package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Line is one label/value pair of the exported summary.
type Line struct {
	Label string
	Value string
}

func money(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

// Lines returns the summary in export order.
func (r *Report) Lines() []Line {
	return []Line{
		{"Período", r.PeriodLabel},
		{"De", r.From.Format("02/01/2006")},
		{"Até", r.To.AddDate(0, 0, -1).Format("02/01/2006")},
		{"Receita Total", money(r.TotalRevenue)},
		{"Receita de Consultas", money(r.ConsultationRevenue)},
		{"Receita de Produtos", money(r.ProductRevenue)},
		{"Consultas", strconv.Itoa(r.Consultations)},
		{"Consultas Realizadas", strconv.Itoa(r.CompletedConsultations)},
		{"Consultas Canceladas", strconv.Itoa(r.CancelledConsultations)},
		{"Pedidos", strconv.Itoa(r.Orders)},
		{"Novos Membros", strconv.Itoa(r.NewMembers)},
		{"Ticket Médio", money(r.AverageTicket)},
		{"Gerado em", r.GeneratedAt.Format("02/01/2006 15:04")},
	}
}

// WriteCSV writes the report as two columns with a "Campo,Valor" header.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Campo", "Valor"}); err != nil {
		return err
	}
	for _, l := range r.Lines() {
		if err := cw.Write([]string{l.Label, l.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds the download name, e.g.
// "relatorio-financeiro-current_month-2024-06-15.csv".
func Filename(period Period, generated time.Time, ext string) string {
	return fmt.Sprintf("relatorio-financeiro-%s-%s.%s", period, generated.Format(time.DateOnly), ext)
}
