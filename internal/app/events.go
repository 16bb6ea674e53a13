package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/pkg/common"
)

// EventAdminAudit is published by the API layer after every mutating
// admin operation; the subscriber persists the audit trail row.
const EventAdminAudit = "admin.audit"

// AuditEvent captures who did what from where.
type AuditEvent struct {
	OprName string
	OprIp   string
	Action  string
	Desc    string
}

func (a *Application) initEvents() {
	if err := a.bus.SubscribeAsync(EventAdminAudit, a.onAuditEvent, false); err != nil {
		zap.L().Error("failed to subscribe audit handler", zap.Error(err))
	}
}

func (a *Application) onAuditEvent(evt AuditEvent) {
	err := a.gormDB.Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   evt.OprName,
		OprIp:     evt.OprIp,
		OptAction: evt.Action,
		OptDesc:   evt.Desc,
		OptTime:   time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("failed to persist audit entry",
			zap.String("action", evt.Action), zap.Error(err))
	}
}
