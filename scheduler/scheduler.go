package scheduler

import (
	"time"

	"licensegate/database"
	"licensegate/logger"
	"licensegate/utils"
)

// StartScheduler 스케줄러 시작
// 만료 처리는 조회 시점에 계산되므로 스케줄러는 감사 로그 보존 기간 관리만 담당합니다.
func StartScheduler(auditRetentionDays int) {
	logger.Info("Scheduler started")

	// 1시간마다 실행
	ticker := time.NewTicker(1 * time.Hour)

	// 서버 시작 시 즉시 한 번 실행
	PruneAuditLogs(auditRetentionDays)

	// 고루틴으로 주기적 실행
	go func() {
		for {
			<-ticker.C
			logger.Info("Scheduler tick: Running PruneAuditLogs")
			PruneAuditLogs(auditRetentionDays)
		}
	}()
}

// PruneAuditLogs 보존 기간이 지난 활성화 감사 로그 삭제
func PruneAuditLogs(retentionDays int) {
	if retentionDays <= 0 {
		return
	}

	logger.Info("Running scheduled task: PruneAuditLogs")

	cutoff := utils.NowUTC().AddDate(0, 0, -retentionDays)
	cutoffStr := utils.FormatDateTimeForDB(cutoff)

	result, err := database.DB.Exec(
		"DELETE FROM activation_audit_logs WHERE created_at < ?",
		cutoffStr,
	)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Failed to prune audit logs")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		logger.WithFields(map[string]interface{}{
			"count":  rowsAffected,
			"cutoff": cutoffStr,
		}).Info("Audit logs pruned")
	}
}
