package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
)

// Dashboard renders the funnel dashboard page.
func Dashboard(p DashboardPage) templ.Component {
	return Layout("Funnel dashboard", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		if p.Flash != "" {
			h.raw(`<div class="flash">`)
			h.text(p.Flash)
			h.raw(`</div>`)
		}
		rangeForm(h, p)
		summary(h, p)
		funnelTable(h, p)
		weeklyTable(h, p)
		forms(h, p)
		stepsTable(h, p)
		registrationsTable(h, p)
		hypothesesTable(h, p)
		transfer(h, p)
		return h.err
	}))
}

func rangeForm(h *html, p DashboardPage) {
	h.raw(`<section class="card"><form method="get" action="/" class="range">`)
	h.rawf(`<label>From <input type="date" name="from" value="%s"></label>`, attr(p.From))
	h.rawf(`<label>To <input type="date" name="to" value="%s"></label>`, attr(p.To))
	h.raw(`<button type="submit">Apply</button>`)
	h.raw(`<span class="presets">`)
	for _, preset := range [][2]string{
		{domain.PresetThisMonth, "This month"},
		{domain.PresetLastMonth, "Last month"},
		{domain.PresetThisWeek, "This week"},
		{domain.PresetLast30Days, "Last 30 days"},
	} {
		h.rawf(`<a href="/?preset=%s">`, attr(preset[0]))
		h.text(preset[1])
		h.raw(`</a>`)
	}
	h.raw(`</span></form></section>`)
}

func summary(h *html, p DashboardPage) {
	h.raw(`<section class="card stats"><div><span class="label">Steps</span><span class="value">`)
	h.rawf("%d", len(p.Steps))
	h.raw(`</span></div><div><span class="label">Realizations</span><span class="value">`)
	h.text(p.TotalRealizations)
	h.raw(`</span></div><div><span class="label">Hypotheses</span><span class="value">`)
	h.rawf("%d", len(p.Hypotheses))
	h.raw(`</span></div></section>`)
}

func funnelTable(h *html, p DashboardPage) {
	h.raw(`<section class="card"><h2>Funnel</h2>`)
	exportLinks(h, "funnel", p)
	if len(p.Funnel) == 0 {
		h.raw(`<p class="empty">No funnel steps yet.</p></section>`)
		return
	}
	h.raw(`<table><thead><tr><th>#</th><th>Step</th><th>Realizations</th><th>Conversion</th></tr></thead><tbody>`)
	for _, r := range p.Funnel {
		h.rawf(`<tr><td>%d</td><td>`, r.OrderNumber)
		h.text(r.StepName)
		h.raw(`</td><td class="num">`)
		h.text(r.Realizations)
		h.raw(`</td><td class="num">`)
		h.text(r.Rate)
		h.raw(`</td></tr>`)
	}
	h.raw(`</tbody></table>`)
	if p.FunnelChartURL != "" {
		h.rawf(`<img class="chart" alt="Conversion by step" src="%s">`, attr(p.FunnelChartURL))
	}
	h.raw(`</section>`)
}

func weeklyTable(h *html, p DashboardPage) {
	h.raw(`<section class="card"><h2>By week</h2>`)
	exportLinks(h, "weekly", p)
	if len(p.Weekly) == 0 {
		h.raw(`<p class="empty">No registrations in this range.</p></section>`)
		return
	}
	h.raw(`<table><thead><tr><th>Week</th><th>Date</th><th>Step</th><th>Realizations</th><th>Conversion</th><th>Hypotheses</th><th>Details</th></tr></thead><tbody>`)
	for _, r := range p.Weekly {
		h.raw(`<tr><td>`)
		h.text(r.Week)
		h.raw(`</td><td>`)
		h.text(r.Date)
		h.raw(`</td><td>`)
		h.text(r.StepName)
		h.raw(`</td><td class="num">`)
		h.text(r.Realizations)
		h.raw(`</td><td class="num">`)
		h.text(r.Rate)
		h.raw(`</td><td>`)
		h.text(r.HypothesisNames)
		h.raw(`</td><td>`)
		h.text(r.HypothesisDescriptions)
		h.raw(`</td></tr>`)
	}
	h.raw(`</tbody></table>`)
	if p.WeeklyChartURL != "" {
		h.rawf(`<img class="chart" alt="Weekly conversion by step" src="%s">`, attr(p.WeeklyChartURL))
	}
	h.raw(`</section>`)
}

func exportLinks(h *html, view string, p DashboardPage) {
	h.raw(`<div class="exports">Export:`)
	for _, format := range []string{"json", "csv", "xlsx"} {
		h.rawf(` <a href="%s">`, attr(string(exportURL(view, format, p.From, p.To))))
		h.text(format)
		h.raw(`</a>`)
	}
	h.raw(`</div>`)
}

func forms(h *html, p DashboardPage) {
	h.raw(`<section class="card forms">`)

	h.raw(`<form method="post" action="/steps"><h3>Add step</h3>`)
	h.raw(`<input name="name" placeholder="Name" required>`)
	h.raw(`<input name="order_number" type="number" placeholder="Order" required>`)
	h.raw(`<button type="submit">Add</button></form>`)

	h.raw(`<form method="post" action="/registrations"><h3>Add registration</h3><select name="step" required>`)
	for _, s := range p.Steps {
		h.rawf(`<option value="%s">`, attr(s.ID))
		h.text(s.Name)
		h.raw(`</option>`)
	}
	h.raw(`</select><input name="realizations" type="number" min="0" placeholder="Realizations" required>`)
	h.raw(`<input name="description" placeholder="Description">`)
	h.rawf(`<input name="date" type="date" value="%s">`, attr(p.Today))
	h.raw(`<button type="submit">Add</button></form>`)

	h.raw(`<form method="post" action="/hypotheses"><h3>Add hypothesis</h3>`)
	h.raw(`<input name="name" placeholder="Name" required>`)
	h.raw(`<input name="description" placeholder="Description">`)
	h.rawf(`<input name="date" type="date" value="%s">`, attr(p.Today))
	h.raw(`<button type="submit">Add</button></form>`)

	h.raw(`</section>`)
}

func stepsTable(h *html, p DashboardPage) {
	h.raw(`<section class="card"><h2>Steps</h2>`)
	if len(p.Steps) == 0 {
		h.raw(`<p class="empty">Add a step to start tracking.</p></section>`)
		return
	}
	h.raw(`<table><thead><tr><th>#</th><th>Name</th><th></th></tr></thead><tbody>`)
	for _, s := range p.Steps {
		h.rawf(`<tr><td>%d</td><td>`, s.OrderNumber)
		h.text(s.Name)
		h.rawf(`</td><td><form method="post" action="/steps/%s/delete"><button class="danger" type="submit">Delete</button></form></td></tr>`, attr(s.ID))
	}
	h.raw(`</tbody></table></section>`)
}

func registrationsTable(h *html, p DashboardPage) {
	h.raw(`<section class="card"><h2>Registrations</h2>`)
	if len(p.Registrations) == 0 {
		h.raw(`<p class="empty">No registrations in this range.</p></section>`)
		return
	}
	h.raw(`<table><thead><tr><th>Date</th><th>Step</th><th>Realizations</th><th>Description</th></tr></thead><tbody>`)
	for _, r := range p.Registrations {
		h.raw(`<tr><td>`)
		h.text(r.Date)
		h.raw(`</td><td>`)
		h.text(r.StepName)
		h.raw(`</td><td class="num">`)
		h.text(r.Realizations)
		h.raw(`</td><td>`)
		h.text(r.Description)
		h.raw(`</td></tr>`)
	}
	h.raw(`</tbody></table></section>`)
}

func hypothesesTable(h *html, p DashboardPage) {
	h.raw(`<section class="card"><h2>Hypotheses</h2>`)
	if len(p.Hypotheses) == 0 {
		h.raw(`<p class="empty">No hypotheses in this range.</p></section>`)
		return
	}
	h.raw(`<table><thead><tr><th>Date</th><th>Name</th><th>Description</th></tr></thead><tbody>`)
	for _, x := range p.Hypotheses {
		h.raw(`<tr><td>`)
		h.text(x.Date)
		h.raw(`</td><td>`)
		h.text(x.Name)
		h.raw(`</td><td>`)
		h.text(x.Description)
		h.raw(`</td></tr>`)
	}
	h.raw(`</tbody></table></section>`)
}

func transfer(h *html, _ DashboardPage) {
	h.raw(`<section class="card"><h2>Database</h2>`)
	h.raw(`<a href="/api/export/database">Download database</a>`)
	h.raw(`<form method="post" action="/api/import/database" enctype="multipart/form-data">`)
	h.raw(`<input type="file" name="file" required><button type="submit">Import</button></form>`)
	h.raw(`</section>`)
}
