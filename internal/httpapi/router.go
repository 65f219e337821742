// Package httpapi exposes a tiny read-only inspection surface over a
// coordinator.Coordinator: which jobs are tracked, and when each one fires
// next. It never accepts writes — scheduling changes always happen through
// the coordinator package directly, in-process.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Inspector is the subset of coordinator.Coordinator the API reads from.
// Accepting it as an interface keeps the router testable without a real
// Coordinator and its background actor goroutine.
type Inspector interface {
	ScheduledIDs() []string
	UpcomingChimeAt(id string) (time.Time, bool)
	UpcomingChimesAt() map[string]time.Time
}

// NewRouter builds the inspection API over c.
func NewRouter(c Inspector) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/jobs", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ids": c.ScheduledIDs()})
	})

	r.GET("/jobs/:id/upcoming", func(ctx *gin.Context) {
		id := ctx.Param("id")
		next, ok := c.UpcomingChimeAt(id)
		if !ok {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "job not found or has no upcoming chime"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"id": id, "next": next})
	})

	r.GET("/jobs/upcoming", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.UpcomingChimesAt())
	})

	return r
}
