// internal/server/handlers.go
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stderrors "town-connect/internal/common/errors"
	"town-connect/internal/common/metrics"
	"town-connect/internal/directory/listing"
	"town-connect/internal/payfast"
	"town-connect/internal/payments"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	for _, p := range s.pingers {
		if err := p.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// handleTenant returns the resolved tenant config, which the frontend
// uses for branding, pricing, and the static content arrays.
func (s *Server) handleTenant(c *gin.Context) {
	c.JSON(http.StatusOK, s.tenantFrom(c))
}

// handlePricing returns the monthly listing price per tier for the
// resolved tenant.
func (s *Server) handlePricing(c *gin.Context) {
	cfg := s.tenantFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"currency": "ZAR",
		"tiers": gin.H{
			string(listing.TierStandard): cfg.PriceFor(listing.TierStandard),
			string(listing.TierPremium):  cfg.PriceFor(listing.TierPremium),
			string(listing.TierGold):     cfg.PriceFor(listing.TierGold),
		},
	})
}

func (s *Server) handleBusinesses(c *gin.Context) {
	cfg := s.tenantFrom(c)

	if c.Query("refresh") == "true" {
		snap, err := s.catalog.Refresh(c.Request.Context(), cfg)
		if err != nil {
			s.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"businesses": snap.Businesses, "fetchedAt": snap.FetchedAt})
		return
	}

	records, err := s.catalog.Businesses(c.Request.Context(), cfg)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": filterBusinesses(records, c.Query("sector"), c.Query("featured"))})
}

// filterBusinesses applies the optional sector and featured query
// filters. An unknown sector simply matches nothing.
func filterBusinesses(records []listing.BusinessRecord, sectorID, featured string) []listing.BusinessRecord {
	if sectorID == "" && featured != "true" {
		return records
	}
	out := make([]listing.BusinessRecord, 0, len(records))
	for _, rec := range records {
		if sectorID != "" && string(rec.SectorID) != sectorID {
			continue
		}
		if featured == "true" && !rec.IsFeatured {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (s *Server) handleEmergency(c *gin.Context) {
	cfg := s.tenantFrom(c)

	services, err := s.catalog.Emergency(c.Request.Context(), cfg)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// handleWhatsApp answers an inbound keyword query with a plain-text
// reply suitable for relaying back over WhatsApp.
func (s *Server) handleWhatsApp(c *gin.Context) {
	cfg := s.tenantFrom(c)

	keyword := c.PostForm("Body")
	if keyword == "" {
		keyword = c.PostForm("keyword")
	}

	records, err := s.catalog.Businesses(c.Request.Context(), cfg)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.String(http.StatusOK, s.search.Reply(cfg, records, keyword))
}

// handlePayFast processes an ITN delivery. An invalid signature is
// rejected outright; a valid notification with any status other than
// COMPLETE is acknowledged without side effects so PayFast stops
// redelivering it.
func (s *Server) handlePayFast(c *gin.Context) {
	cfg := s.tenantFrom(c)

	if err := c.Request.ParseForm(); err != nil {
		metrics.PaymentNotifications.WithLabelValues("unknown", "malformed").Inc()
		s.renderError(c, stderrors.NewMalformedNotificationError(err))
		return
	}
	form := c.Request.PostForm

	if !payfast.Verify(form, s.cfg.PayFast.Passphrase) {
		metrics.PaymentNotifications.WithLabelValues(form.Get("payment_status"), "invalid_signature").Inc()
		s.logger.Warn("payfast signature rejected", map[string]interface{}{
			"tenant":        cfg.Slug,
			"pf_payment_id": form.Get("pf_payment_id"),
		})
		s.renderError(c, stderrors.NewInvalidSignatureError("signature mismatch"))
		return
	}

	n := payfast.ParseNotification(form)

	if !n.IsComplete() {
		metrics.PaymentNotifications.WithLabelValues(n.PaymentStatus, "ignored").Inc()
		c.String(http.StatusOK, "OK")
		return
	}

	entry := payments.NewEntry(uuid.NewString(), cfg.Slug, n)
	if err := s.ledger.Append(c.Request.Context(), entry); err != nil {
		metrics.PaymentNotifications.WithLabelValues(n.PaymentStatus, "ledger_error").Inc()
		s.renderError(c, err)
		return
	}

	if err := s.notifier.PaymentRecorded(c.Request.Context(), entry); err != nil {
		// The payment is recorded; a missed notification is not worth
		// making PayFast redeliver.
		s.logger.WithError(err).Warn("owner notification failed", map[string]interface{}{
			"pf_payment_id": n.PaymentID,
		})
	}

	metrics.PaymentNotifications.WithLabelValues(n.PaymentStatus, "recorded").Inc()
	c.String(http.StatusOK, "OK")
}

func (s *Server) renderError(c *gin.Context, err error) {
	if stdErr, ok := err.(*stderrors.StandardError); ok {
		c.JSON(stderrors.HTTPStatus(stdErr.Code), gin.H{
			"error":     stdErr.Message,
			"code":      stdErr.Code,
			"retryable": stdErr.Retryable,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
