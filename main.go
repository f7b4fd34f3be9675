package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yuliaset/mjlog-Parser/config"
	"github.com/yuliaset/mjlog-Parser/mjlog"
	"github.com/yuliaset/mjlog-Parser/server"
	"github.com/yuliaset/mjlog-Parser/trace"
)

var (
	outPath    string
	logLevel   string
	configFile string
	serveFile  string
)

var rootCmd = &cobra.Command{
	Use:   "mjlog-parser",
	Short: "天凤 .mjlog 对局日志解码工具",
	Long:  "解码 .mjlog 对局日志：摸牌/切牌/鸣牌/和牌逐条还原为可读轨迹，支持文本输出与 WebSocket 回放",
}

// traceCmd 解码一个日志文件并输出文本轨迹
var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "解码日志并输出文本轨迹",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 日志走 stderr，轨迹文本走 stdout，互不混淆
		server.InitConsoleLogger(logLevel)
		defer server.SyncLogger()

		records, err := mjlog.ReadLog(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		events, errs := mjlog.ClassifyAll(records)
		for _, e := range errs {
			server.Log.Warnf("skip record: %v", e)
		}

		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := trace.Write(out, events); err != nil {
			return err
		}
		server.Log.Infof("decoded %d records into %d events (%d skipped)",
			len(records), len(events), len(errs))
		return nil
	},
}

// serveCmd 启动 WebSocket 回放查看器
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 WebSocket 回放查看器",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := server.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
			return err
		}
		defer server.SyncLogger()

		rm := server.GetSessionManager()
		rm.SetDefaults(cfg.ReplayInterval(), cfg.Autoplay)

		// 启动时预装载一个默认会话，便于直接连 /ws 试看
		if serveFile != "" {
			records, err := mjlog.ReadLog(serveFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", serveFile, err)
			}
			rm.CreateSession(server.DefaultSessionID, serveFile, records)
		}

		// 配置热更新：只影响之后新建会话的回放默认值
		if configFile != "" {
			err := config.Watch(configFile, func(c *config.Config) {
				rm.SetDefaults(c.ReplayInterval(), c.Autoplay)
				server.Log.Infof("config reloaded: replayMs=%d autoplay=%v", c.ReplayMs, c.Autoplay)
			})
			if err != nil {
				server.Log.Warnf("config watch disabled: %v", err)
			}
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", server.HandleWS)
		mux.HandleFunc("/sessions", server.HandleSessions)
		mux.HandleFunc("/admin/config", server.HandleAdminConfig)
		mux.HandleFunc("/admin/load", server.HandleAdminLoad)
		mux.HandleFunc("/metrics", server.HandleMetrics)
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		srv := &http.Server{Addr: cfg.Addr, Handler: mux}
		go func() {
			server.Log.Infof("mjlog viewer listening on %s", cfg.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				server.Log.Fatalf("listen: %v", err)
			}
		}()

		// 优雅退出（Ctrl+C）
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		server.Log.Info("Shutting down...")
		return srv.Close()
	},
}

func init() {
	traceCmd.Flags().StringVar(&outPath, "out", "", "输出文件路径，缺省为 stdout")
	traceCmd.Flags().StringVar(&logLevel, "logLevel", "info", "日志级别")
	serveCmd.Flags().StringVar(&configFile, "configFile", "", "配置文件路径，缺省用内置默认值")
	serveCmd.Flags().StringVar(&serveFile, "file", "", "启动时装载的日志文件（建立 default 会话）")
	rootCmd.AddCommand(traceCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
