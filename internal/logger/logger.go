package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
)

// 单个日志文件超过该大小后轮转
const maxLogSize = 10 * 1024 * 1024

var (
	logFile *os.File
	logPath string
)

// Init 将标准日志输出重定向到指定文件。
// path 为空时保持输出到 stderr，仅设置日志格式。
func Init(path string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}

	// 超过大小上限时轮转，旧文件带时间戳备份
	if info, statErr := f.Stat(); statErr == nil && info.Size() > maxLogSize {
		_ = f.Close()
		backup := fmt.Sprintf("%s.%d", path, time.Now().Unix())
		_ = os.Rename(path, backup)
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("轮转日志文件失败: %w", err)
		}
	}

	logFile = f
	logPath = path
	log.SetOutput(logFile)
	log.Printf("📝 日志输出到 %s", logPath)
	return nil
}

// Close 关闭日志文件
func Close() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// LogPanic 记录 panic 及堆栈
func LogPanic(r any) {
	log.Printf("💥 panic: %v\n%s", r, debug.Stack())
}
