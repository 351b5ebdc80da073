// Command mock-newsnow runs a deterministic NewsNow-compatible hotlist
// server for local development. It returns fixed items per platform so
// crawls and tool output are predictable without hitting the real API.
//
// Point the crawler at it with:
//
//	TRENDRADAR_BASE_URL=http://localhost:9090/api/s
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/s", handleHotlist)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock newsnow starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock newsnow failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock newsnow shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Wire types ---

type hotResponse struct {
	Status string    `json:"status"`
	Items  []hotItem `json:"items"`
}

type hotItem struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	MobileURL string   `json:"mobileUrl,omitempty"`
	Extra     hotExtra `json:"extra"`
}

type hotExtra struct {
	Info string `json:"info"`
}

// --- Handler ---

// hotlists holds the fixed per-platform feeds. Item order is rank order.
var hotlists = map[string][]hotItem{
	"weibo": {
		item("全国多地迎来强降雨", "https://weibo.com/mock/1", "890万"),
		item("华为发布新旗舰手机", "https://weibo.com/mock/2", "456万"),
		item("国足世预赛名单公布", "https://weibo.com/mock/3", "321万"),
		item("高校录取通知书陆续送达", "https://weibo.com/mock/4", "108万"),
	},
	"zhihu": {
		item("如何评价华为新旗舰的影像系统", "https://www.zhihu.com/question/mock1", "2876万"),
		item("为什么今年雨水这么多", "https://www.zhihu.com/question/mock2", "1543万"),
		item("第一份工作应该选大公司还是小公司", "https://www.zhihu.com/question/mock3", "987万"),
	},
	"douyin": {
		item("小狗接住高空坠落的快递", "https://www.douyin.com/mock/1", "1.2亿"),
		item("山村教师坚守讲台三十年", "https://www.douyin.com/mock/2", "9800万"),
	},
	"bilibili": {
		item("UP主自制火箭成功回收", "https://www.bilibili.com/video/mock1", "520万"),
		item("三分钟看懂量子计算", "https://www.bilibili.com/video/mock2", "233万"),
	},
	"36kr": {
		item("国产大模型融资创新高", "https://36kr.com/p/mock1", "45万"),
		item("新能源车企激战欧洲市场", "https://36kr.com/p/mock2", "32万"),
	},
}

func item(title, url, hot string) hotItem {
	return hotItem{Title: title, URL: url, Extra: hotExtra{Info: hot}}
}

func handleHotlist(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	// A reserved id for exercising failure handling downstream.
	if id == "down" {
		http.Error(w, `{"status":"error"}`, http.StatusBadGateway)
		return
	}

	items, ok := hotlists[id]
	status := "success"
	if !ok {
		items = []hotItem{}
	}
	// The real API serves cached lists most of the time; alternate so
	// both accepted statuses show up.
	if len(items) > 0 && time.Now().Unix()%2 == 0 {
		status = "cache"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hotResponse{Status: status, Items: items})
	slog.Info("hotlist served", "platform", id, "items", len(items), "status", status)
}
