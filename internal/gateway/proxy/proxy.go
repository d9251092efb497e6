package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy Handler
// ============================================================

// Upstream пересылает запросы шлюза в сервис планировщика.
type Upstream struct {
	base   string
	client *http.Client
}

func NewUpstream(base string, timeout time.Duration) *Upstream {
	return &Upstream{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Handler отрезает prefix от пути и пересылает остаток вместе с query string.
func (u *Upstream) Handler(prefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := strings.TrimPrefix(c.Path(), prefix)
		if path == "" {
			path = "/"
		}
		target := u.base + path
		if q := c.Request().URI().QueryString(); len(q) > 0 {
			target += "?" + string(q)
		}
		return u.forward(c, target)
	}
}

// Ping проверяет /health/ready сервиса.
func (u *Upstream) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.base+"/health/ready", nil)
	if err != nil {
		return err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream not ready: %s", resp.Status)
	}
	return nil
}

func (u *Upstream) forward(c fiber.Ctx, targetURL string) error {
	log.Printf("[PROXY] %s %s -> %s (%d bytes)", c.Method(), c.Path(), targetURL, len(c.Body()))

	var body io.Reader
	if len(c.Body()) > 0 {
		body = bytes.NewReader(c.Body())
	}
	req, err := http.NewRequest(c.Method(), targetURL, body)
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	for _, key := range []string{"Content-Type", "Accept"} {
		if v := c.Get(key); v != "" {
			req.Header.Set(key, v)
		}
	}

	resp, err := u.client.Do(req)
	if err != nil {
		log.Printf("[PROXY] Error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach planner service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		switch key {
		case "Content-Length", "Transfer-Encoding", "Connection":
			continue
		}
		if len(values) > 0 {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
