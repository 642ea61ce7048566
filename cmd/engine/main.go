package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	csv_adapter "github.com/JoeShih716/go-payments-engine/internal/app/core/adapter/in/csv"
	memory_adapter "github.com/JoeShih716/go-payments-engine/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-payments-engine/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-payments-engine/internal/app/core/adapter/out/report"
	"github.com/JoeShih716/go-payments-engine/internal/app/core/usecase"
	"github.com/JoeShih716/go-payments-engine/internal/config"
	"github.com/JoeShih716/go-payments-engine/pkg/journal"
	"github.com/JoeShih716/go-payments-engine/pkg/logger"
	"github.com/JoeShih716/go-payments-engine/pkg/mysql"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <transactions.csv>\n", os.Args[0])
		os.Exit(2)
	}
	if err := run(context.Background(), os.Args[1], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, inputPath string, stdout io.Writer) error {
	// 1. 載入設定
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		return err
	}

	// 2. 初始化 Logger，每次執行帶上 run_id
	baseLogger, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer baseLogger.Sync()
	runID := uuid.New()
	log := baseLogger.With(zap.String("run_id", runID.String()))

	// 3. 開啟輸入檔 (無法開啟時直接結束)
	source, err := csv_adapter.Open(inputPath)
	if err != nil {
		return err
	}
	defer source.Close()

	// 4. 初始化帳本與 UseCase
	opts := []usecase.Option{usecase.WithRunID(runID)}
	if cfg.Journal.Path != "" {
		var journalOpts []journal.Option
		if cfg.Journal.SyncEachWrite {
			journalOpts = append(journalOpts, journal.WithSyncEachWrite())
		}
		j, err := journal.Open(cfg.Journal.Path, journalOpts...)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		// 程式結束時關閉 journal
		defer func() {
			if err := j.Close(); err != nil {
				log.Error("failed to close journal", zap.Error(err))
			}
		}()
		opts = append(opts, usecase.WithJournal(j))
	}
	coreUseCase := usecase.NewCoreUseCase(memory_adapter.NewBank(), log, opts...)

	// 5. 依序處理所有交易
	log.Info("processing transactions", zap.String("input", inputPath))
	if _, err := coreUseCase.Run(ctx, source); err != nil {
		return err
	}

	// 6. 輸出結果
	sinks := []usecase.SnapshotSink{report.NewWriter(stdout)}
	if cfg.MySQL.Enabled {
		exporter, closeDB, err := newSnapshotExporter(ctx, cfg.MySQL, runID, log)
		if err != nil {
			return err
		}
		defer closeDB()
		sinks = append(sinks, exporter)
	}
	return coreUseCase.Publish(ctx, sinks...)
}

// newSnapshotExporter 連線 MySQL 並建立資料表
func newSnapshotExporter(ctx context.Context, cfg mysql.Config, runID uuid.UUID, log *zap.Logger) (*mysql_adapter.SnapshotExporter, func(), error) {
	dbClient, err := mysql.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to mysql", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))

	exporter := mysql_adapter.NewSnapshotExporter(dbClient, runID)
	if err := exporter.Migrate(ctx); err != nil {
		dbClient.Close()
		return nil, nil, fmt.Errorf("migrate snapshot tables: %w", err)
	}
	closeDB := func() {
		if err := dbClient.Close(); err != nil {
			log.Error("failed to close mysql", zap.Error(err))
		}
	}
	return exporter, closeDB, nil
}
