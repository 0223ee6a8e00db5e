package main

import (
	"context"
	"fmt"
	"time"

	"github.com/blues/aidlink/internal/auth"
	"github.com/blues/aidlink/internal/chain"
	"github.com/blues/aidlink/internal/config"
	"github.com/blues/aidlink/internal/database"
	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/logic"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
	"github.com/blues/aidlink/internal/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// app 进程内共享的组件
type app struct {
	cfg          *config.Config
	db           *gorm.DB
	issuer       *auth.Issuer
	api          *logic.Facade
	registry     *prometheus.Registry
	transactions *notifier.Hub[model.Transaction]
	events       *notifier.Hub[model.BlockchainEvent]
	contract     *chain.Contract
	rpc          *chain.Client
	tasks        *task.Manager
}

// loadApp 加载配置、初始化日志与数据存储，并创建推送中心
func loadApp() (*app, error) {
	cfg := config.Load(configFile)
	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Database ready (driver: %s)", cfg.Database.Driver)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &app{
		cfg:      cfg,
		db:       db,
		issuer:   auth.NewIssuer(cfg.Auth),
		registry: registry,
	}
	a.api = logic.NewFacade(db, logic.NewSimulator(cfg.API), a.issuer, cfg.Ledger.StrictFunding)

	opts := notifier.Options{PoolSize: cfg.Notifier.PoolSize, Registry: registry}
	if a.transactions, err = notifier.NewHub[model.Transaction]("transactions", opts); err != nil {
		a.close()
		return nil, err
	}
	if a.events, err = notifier.NewHub[model.BlockchainEvent]("events", opts); err != nil {
		a.close()
		return nil, err
	}

	if a.contract, err = chain.NewContract(cfg.Chain.ContractAddress); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// startFeeds 注册并启动定时推送任务
func (a *app) startFeeds(ctx context.Context) error {
	tasks, err := task.NewManager()
	if err != nil {
		return err
	}
	a.tasks = tasks

	feed := task.NewTransactionFeedJob(a.transactions, a.cfg.Notifier.TransactionInterval, uint64(time.Now().UnixNano()))
	if err := tasks.Register(feed); err != nil {
		return err
	}

	var chainJob task.Job
	switch a.cfg.Chain.Mode {
	case "rpc":
		a.rpc, err = chain.Dial(ctx, a.cfg.Chain.RpcUrl, a.contract)
		if err != nil {
			return err
		}
		chainJob = task.NewChainSyncJob(a.rpc, a.contract, a.api, a.events,
			a.cfg.Notifier.EventInterval, a.cfg.Chain.StartBlock, a.cfg.Chain.BatchSize)
	case "", "mock":
		generator := chain.NewGenerator(a.contract, uint64(time.Now().UnixNano()))
		chainJob = task.NewChainEventJob(generator, a.api, a.events, a.cfg.Notifier.EventInterval)
	default:
		return fmt.Errorf("unsupported chain mode: %s", a.cfg.Chain.Mode)
	}
	if err := tasks.Register(chainJob); err != nil {
		return err
	}

	tasks.Start()
	return nil
}

// close 按依赖逆序释放资源
func (a *app) close() {
	if a.tasks != nil {
		a.tasks.Stop()
	}
	if a.rpc != nil {
		a.rpc.Close()
	}
	if a.transactions != nil {
		a.transactions.Close()
	}
	if a.events != nil {
		a.events.Close()
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			logger.Warn("Failed to close database: %v", err)
		}
	}
	logger.Sync()
}
