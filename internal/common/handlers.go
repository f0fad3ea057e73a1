package common

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	v0common "MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type StatusResponse struct {
	InternalServerLatency string `json:"internal_server_latency"`
	Uptime                string `json:"uptime"`
}

// Uptime Logic
var startTime time.Time

func uptime() time.Duration {
	return time.Since(startTime)
}

func init() {
	startTime = time.Now()
}

// Health reports whether the process and its backing stores respond.
type Health struct {
	db  *sql.DB
	rdb *redis.Client
}

// NewHealth checks db and, when rdb is non-nil, redis.
func NewHealth(db *sql.DB, rdb *redis.Client) *Health {
	return &Health{db: db, rdb: rdb}
}

// ping measures a database round trip.
func (h *Health) ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	err := h.db.PingContext(ctx)
	return time.Since(start), err
}

// Status reports uptime and database latency
// GET /api/status
func (h *Health) Status(c *gin.Context) {
	latency, err := h.ping(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, v0common.CreateErrorResponse([]string{"database unavailable"}))
		return
	}
	data := StatusResponse{
		InternalServerLatency: latency.String(),
		Uptime:                uptime().Truncate(time.Second).String(),
	}
	c.JSON(http.StatusOK, v0common.CreateSuccessResponse(data))
}

// Healthz answers while the process is up
// GET /healthz
func (h *Health) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz answers once the database and redis respond
// GET /readyz
func (h *Health) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	ready := true
	if _, err := h.ping(ctx); err != nil {
		checks["database"] = err.Error()
		ready = false
	}
	if h.rdb != nil {
		checks["redis"] = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			ready = false
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ready": ready, "checks": checks})
}


/*
This project is the backend API for the hostel mess. Meal slot bookings, weekly menus, announcements, complaints and feedback for residents and the mess office.
MessAPI Copyright (C) 2025 MessAPI contributors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
