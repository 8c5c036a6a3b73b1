package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	adminInfoKey    = "adminInfoWidget"
	controlPanelKey = "controlPanelWidget"
)

// Counter is a store able to count its rows.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// UnreadCounter is a store with read/unread rows.
type UnreadCounter interface {
	Counter
	UnreadCount(ctx context.Context) (int64, error)
}

// AdminInfoWidget is the unread badge shown in the administration header.
type AdminInfoWidget struct {
	UnreadMessages     int64
	UnreadApplications int64
}

// ControlPanelWidget holds the totals shown on the control panel.
type ControlPanelWidget struct {
	TotalMessages     int64
	TotalApplications int64
	TotalJobs         int64
	TotalProjects     int64
}

// Widgets computes the administration widgets.
type Widgets struct {
	messages     UnreadCounter
	applications UnreadCounter
	jobs         Counter
	projects     Counter
	log          logrus.FieldLogger
}

func NewWidgets(messages, applications UnreadCounter, jobs, projects Counter, log logrus.FieldLogger) *Widgets {
	return &Widgets{messages: messages, applications: applications, jobs: jobs, projects: projects, log: log}
}

// AdminInfo counts unread messages and applications; any failure zeroes both.
func (w *Widgets) AdminInfo(ctx context.Context) *AdminInfoWidget {
	messages, err := w.messages.UnreadCount(ctx)
	if err != nil {
		w.log.WithError(err).Error("AdminInfo: count unread messages")
		return &AdminInfoWidget{}
	}
	applications, err := w.applications.UnreadCount(ctx)
	if err != nil {
		w.log.WithError(err).Error("AdminInfo: count unread applications")
		return &AdminInfoWidget{}
	}
	return &AdminInfoWidget{UnreadMessages: messages, UnreadApplications: applications}
}

// ControlPanel counts every entity, stopping at the first failure with all
// totals zeroed.
func (w *Widgets) ControlPanel(ctx context.Context) *ControlPanelWidget {
	var out ControlPanelWidget
	steps := []struct {
		name    string
		counter Counter
		dst     *int64
	}{
		{"messages", w.messages, &out.TotalMessages},
		{"applications", w.applications, &out.TotalApplications},
		{"jobs", w.jobs, &out.TotalJobs},
		{"projects", w.projects, &out.TotalProjects},
	}
	for _, step := range steps {
		total, err := step.counter.Count(ctx)
		if err != nil {
			w.log.WithError(err).WithField("entity", step.name).Error("ControlPanel: count failed")
			return &ControlPanelWidget{}
		}
		*step.dst = total
	}
	return &out
}

// LoadAdminInfo attaches the AdminInfo widget to every administration page.
func (w *Widgets) LoadAdminInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(adminInfoKey, w.AdminInfo(c.Request.Context()))
		c.Next()
	}
}
