// Command import_questions loads interview questions from an .xlsx workbook
// into the shared question bank.
//
//	import_questions --account <account-id> questions.xlsx
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"interview-coach/internal/adapter/spreadsheet"
	"interview-coach/internal/adapter/storage"
	"interview-coach/internal/cache"
	"interview-coach/internal/config"
	"interview-coach/internal/database"
	"interview-coach/internal/domain"
	"interview-coach/internal/logger"
	"interview-coach/internal/repository"
	"interview-coach/internal/service"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.String("config", "", "Path to config.yaml or the directory holding it")
	accountID := pflag.String("account", "cli", "Account the upload is archived under")
	timeout := pflag.Duration("timeout", 5*time.Minute, "Overall import timeout")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import_questions [--config path] [--account id] <workbook.xlsx>")
		os.Exit(2)
	}
	path := pflag.Arg(0)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer l.Sync()

	if err := spreadsheet.ValidateExtension(path); err != nil {
		l.Fatal("Refusing to import", zap.Error(err))
	}
	f, err := os.Open(path)
	if err != nil {
		l.Fatal("Failed to open workbook", zap.String("path", path), zap.Error(err))
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.NewPostgresDB(ctx, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 캐시가 없어도 import는 진행한다. 목록 캐시는 TTL로 만료된다.
	var questionCache domain.Cache
	if redisClient, err := cache.NewRedisClient(ctx, cfg.Redis); err != nil {
		l.Warn("Question list cache will not be invalidated", zap.Error(err))
	} else {
		defer redisClient.Close()
		questionCache = cache.NewRedisStore(redisClient)
	}

	var archive domain.UploadArchive
	if s3Archive, err := storage.NewS3Archive(ctx, cfg.Storage); err != nil {
		l.Warn("Upload archiving disabled", zap.Error(err))
	} else if s3Archive != nil {
		archive = s3Archive
	}

	questions := service.NewQuestionService(repository.NewQuestionRepository(repository.NewTableStore(db)), questionCache, l)
	ingestion := service.NewIngestionService(spreadsheet.NewWorkbookReader(l), questions, archive, l)

	outcome, err := ingestion.Ingest(ctx, *accountID, f)
	if err != nil {
		l.Fatal("Import failed", zap.String("path", path), zap.String("reason", domain.UserMessage(err)), zap.Error(err))
	}

	fmt.Printf("rows: %d, imported: %d, failed: %d\n", outcome.TotalRows, outcome.SuccessCount, outcome.FailureCount)
	for _, rowErr := range outcome.Errors {
		fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
	}
	if outcome.FailureCount > 0 {
		os.Exit(1)
	}
}
