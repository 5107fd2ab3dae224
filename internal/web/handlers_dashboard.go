package web

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/elchristog/marketing-funnels-gestor/internal/adapters/quickchart"
	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/util"
	"github.com/elchristog/marketing-funnels-gestor/internal/web/templates"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dr, err := s.parseRange(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	page, err := s.fetchDashboardData(ctx, dr)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	page.Flash = r.URL.Query().Get("error")

	if err := templates.Dashboard(page).Render(ctx, w); err != nil {
		log.WithError(err).Warn("failed to render dashboard")
	}
}

func (s *Server) fetchDashboardData(ctx context.Context, dr domain.DateRange) (templates.DashboardPage, error) {
	var (
		steps         []*domain.FunnelStep
		funnel        []domain.FunnelRow
		weekly        []domain.WeeklyFunnelRow
		rollup        []domain.WeeklyStepTotal
		registrations []domain.Registration
		hypotheses    []domain.Hypothesis
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		steps, err = s.service.ListSteps(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		funnel, err = s.service.GetFunnel(gctx, dr)
		return err
	})
	g.Go(func() error {
		var err error
		weekly, err = s.service.GetFunnelByWeek(gctx, dr)
		return err
	})
	g.Go(func() error {
		var err error
		rollup, err = s.service.GetWeeklyRollup(gctx, dr)
		return err
	})
	g.Go(func() error {
		var err error
		registrations, err = s.service.ListRegistrations(gctx, dr)
		return err
	})
	g.Go(func() error {
		var err error
		hypotheses, err = s.service.ListHypotheses(gctx, dr)
		return err
	})
	if err := g.Wait(); err != nil {
		return templates.DashboardPage{}, err
	}

	page := templates.DashboardPage{
		From:              dr.StartString(),
		To:                dr.EndString(),
		Today:             domain.FormatDate(s.service.Today()),
		TotalRealizations: util.FormatNumber(domain.TotalRealizations(funnel)),
	}

	for _, st := range steps {
		page.Steps = append(page.Steps, templates.Step{ID: st.ID, Name: st.Name, OrderNumber: st.OrderNumber})
	}
	for _, row := range funnel {
		page.Funnel = append(page.Funnel, templates.FunnelRow{
			StepName:     row.StepName,
			OrderNumber:  row.OrderNumber,
			Realizations: util.FormatNumber(row.Realizations),
			Rate:         util.FormatRate(row.ConversionRate),
		})
	}
	for _, row := range weekly {
		page.Weekly = append(page.Weekly, templates.WeeklyRow{
			Week:                   row.WeekKey.Label(),
			Date:                   domain.FormatDate(row.Date),
			StepName:               row.StepName,
			Realizations:           util.FormatNumber(row.Realizations),
			Rate:                   util.FormatRate(row.ConversionRate),
			HypothesisNames:        row.HypothesisNames,
			HypothesisDescriptions: row.HypothesisDescriptions,
		})
	}
	for _, reg := range registrations {
		page.Registrations = append(page.Registrations, templates.Registration{
			Date:         domain.FormatDate(reg.Date),
			StepName:     reg.StepName,
			Realizations: util.FormatNumber(reg.Realizations),
			Description:  util.Deref(reg.Description),
		})
	}
	for _, h := range hypotheses {
		page.Hypotheses = append(page.Hypotheses, templates.Hypothesis{
			Date:        domain.FormatDate(h.Date),
			Name:        h.Name,
			Description: util.Deref(h.Description),
		})
	}

	// Charts are decoration: a failure leaves the image out.
	if url, err := quickchart.GetChartImageUrlForConfig(quickchart.FunnelConversionChart(funnel)); err == nil {
		page.FunnelChartURL = url
	} else {
		log.WithError(err).Warn("failed to build funnel chart")
	}
	if len(rollup) > 0 {
		if url, err := quickchart.GetChartImageUrlForConfig(quickchart.WeeklyConversionChart(rollup)); err == nil {
			page.WeeklyChartURL = url
		} else {
			log.WithError(err).Warn("failed to build weekly chart")
		}
	}

	return page, nil
}
