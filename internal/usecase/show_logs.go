package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// ShowLogsInput contains the parameters for showing logs.
type ShowLogsInput struct {
	OrderID string // Order to show logs for ("" = global log)
	Lines   int    // Number of lines to display from the end (0 = all)
}

// ShowLogsOutput contains the result of showing logs.
type ShowLogsOutput struct {
	LogPath string // Path to the log file
	Content string // Log file content
}

// ShowLogs is the use case for viewing the global log or an order's log.
type ShowLogs struct {
	orders  domain.OrderRepository
	dataDir string
}

// NewShowLogs creates a new ShowLogs use case.
func NewShowLogs(orders domain.OrderRepository, dataDir string) *ShowLogs {
	return &ShowLogs{
		orders:  orders,
		dataDir: dataDir,
	}
}

// Execute reads and returns the log content.
func (uc *ShowLogs) Execute(ctx context.Context, in ShowLogsInput) (*ShowLogsOutput, error) {
	logPath := domain.GlobalLogPath(uc.dataDir)
	if in.OrderID != "" {
		// Order must exist; a deleted order's log is reachable only by path
		if _, err := shared.GetOrder(ctx, uc.orders, in.OrderID); err != nil {
			return nil, err
		}
		logPath = domain.OrderLogPath(uc.dataDir, in.OrderID)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", logPath, domain.ErrLogNotFound)
		}
		return nil, fmt.Errorf("read log file: %w", err)
	}

	// If lines is specified, get only the last N lines
	result := string(content)
	if in.Lines > 0 {
		lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
		if len(lines) > in.Lines {
			lines = lines[len(lines)-in.Lines:]
		}
		result = strings.Join(lines, "\n") + "\n"
	}

	return &ShowLogsOutput{
		LogPath: logPath,
		Content: result,
	}, nil
}
