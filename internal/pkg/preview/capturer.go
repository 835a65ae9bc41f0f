package preview

import (
	"Byndlink/internal/api/config"
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	log "log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Capturer 负责设计链接的嵌入信息抓取与预览截图
type Capturer struct {
	httpClient *resty.Client
	browserCtx context.Context
	cancel     context.CancelFunc
}

// FigmaEmbed Figma oEmbed 接口返回的嵌入信息
type FigmaEmbed struct {
	EmbedURL     string
	ThumbnailURL string
	Title        string
}

// NewCapturer 在单例初始化时启动浏览器引擎
func NewCapturer() *Capturer {
	ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(ua),
	)

	allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		panic(fmt.Sprintf("浏览器引擎启动失败，请检查是否安装 Chrome: %v", err))
	}

	client := resty.New().
		SetTimeout(20 * time.Second).
		SetHeader("User-Agent", ua)

	return &Capturer{
		httpClient: client,
		browserCtx: browserCtx,
		cancel:     cancel,
	}
}

// FetchFigmaEmbed 通过 Figma oEmbed 接口解析粘贴链接，失败时回退到抓取页面 og 标签
func (c *Capturer) FetchFigmaEmbed(ctx context.Context, pastedURL string) (*FigmaEmbed, error) {
	oembedURL := "https://www.figma.com/api/oembed?url=" + url.QueryEscape(pastedURL)

	resp, err := c.httpClient.R().SetContext(ctx).Get(oembedURL)
	if err == nil && resp.StatusCode() == 200 {
		var payload struct {
			Title        string `json:"title"`
			ThumbnailURL string `json:"thumbnail_url"`
			HTML         string `json:"html"`
		}
		if jsonErr := json.Unmarshal(resp.Body(), &payload); jsonErr == nil {
			embed := &FigmaEmbed{
				EmbedURL:     extractIframeSrc(payload.HTML),
				ThumbnailURL: payload.ThumbnailURL,
				Title:        payload.Title,
			}
			if embed.EmbedURL == "" {
				embed.EmbedURL = buildFigmaEmbedURL(pastedURL)
			}
			return embed, nil
		}
	}

	log.WarnContext(ctx, "figma oembed failed, falling back to page scrape", "url", pastedURL)
	return c.scrapeEmbedFallback(ctx, pastedURL)
}

// scrapeEmbedFallback 直接抓取页面，从 meta 标签里提取标题和缩略图
func (c *Capturer) scrapeEmbedFallback(ctx context.Context, pastedURL string) (*FigmaEmbed, error) {
	resp, err := c.httpClient.R().SetContext(ctx).Get(pastedURL)
	if err != nil {
		return nil, errors.Wrap(err, "抓取设计页面失败")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, errors.Wrap(err, "解析设计页面失败")
	}

	embed := &FigmaEmbed{EmbedURL: buildFigmaEmbedURL(pastedURL)}
	embed.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if v, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		embed.ThumbnailURL = v
	}
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && v != "" {
		embed.Title = v
	}
	return embed, nil
}

// CaptureScreenshot 打开独立标签页截取整页截图
func (c *Capturer) CaptureScreenshot(ctx context.Context, pageURL string) ([]byte, error) {
	tabCtx, cancel := chromedp.NewContext(c.browserCtx)
	defer cancel()

	timeout := 30 * time.Second
	if config.Cfg != nil && config.Cfg.Preview.ScreenshotTimeout > 0 {
		timeout = time.Duration(config.Cfg.Preview.ScreenshotTimeout) * time.Second
	}
	var timeoutCancel context.CancelFunc
	tabCtx, timeoutCancel = context.WithTimeout(tabCtx, timeout)
	defer timeoutCancel()

	var shot []byte
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(1280, 800),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(`body`),
		chromedp.Sleep(2*time.Second),
		chromedp.FullScreenshot(&shot, 90),
	)
	if err != nil {
		return nil, errors.Wrap(err, "页面截图失败")
	}
	return shot, nil
}

// MakeThumbnail 将截图缩放为指定宽度的 JPEG 缩略图
func (c *Capturer) MakeThumbnail(data []byte, width int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "解码截图失败")
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, errors.Wrap(err, "编码缩略图失败")
	}
	return buf.Bytes(), nil
}

func (c *Capturer) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// extractIframeSrc 从 oEmbed 返回的 html 片段里取出 iframe 的 src
func extractIframeSrc(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("iframe").Attr("src")
	return src
}

// buildFigmaEmbedURL 按 Figma 嵌入规范拼装 embed 链接
func buildFigmaEmbedURL(pastedURL string) string {
	return "https://www.figma.com/embed?embed_host=byndlink&url=" + url.QueryEscape(pastedURL)
}
