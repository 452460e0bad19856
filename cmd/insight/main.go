/*
 * @author: sun977
 * @date: 2025.11.20
 * @description: 主程序入口
 * @func: 初始化应用、配置路由、启动服务器、等待中断信号
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flowinsight/internal/app/insight"
	"flowinsight/internal/config"
	"flowinsight/internal/pkg/logger"
)

func main() {
	// 创建应用实例
	app, err := insight.NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// 获取配置和Gin引擎
	cfg := app.GetConfig()
	engine := app.GetRouter().GetEngine()

	// 启动配置热加载监听
	if err := config.StartConfigWatcher("", ""); err != nil {
		log.Printf("Config watcher not started: %v", err)
	}
	defer config.StopConfigWatcher()

	// 日志配置随热加载即时生效(级别、格式、输出目标)
	if err := config.AddConfigReloadCallback(func(oldCfg, newCfg *config.Config) error {
		if oldCfg == nil || logger.LoggerInstance == nil {
			return nil
		}
		return logger.LoggerInstance.UpdateConfig(&newCfg.Log)
	}); err != nil {
		log.Printf("Log reload callback not registered: %v", err)
	}

	// 启动后台组件(定时分析任务)
	if err := app.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	// 创建HTTP服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:           addr,
		Handler:        engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// 启动服务器的goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 给服务器5秒钟的时间来完成现有请求
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// 停止后台组件并释放存储连接
	if err := app.Stop(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("Server exiting")
}
