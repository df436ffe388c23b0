// Package playproto описывает маршруты и заголовки демо-сервера, общие для сервера и клиента.
package playproto

// Маршруты демо-сервера.
const (
	DownloadFilePathFormat = "%s/download-file/%s"
	ViewFilePathFormat     = "%s/view-file/%s"
	SyntheticPathFormat    = "%s/download-%s"
	LargeJSONPath          = "/stream-large-json"
	TextStreamPath         = "/stream-text"
)

// Заголовки.
const (
	HeaderRequestID    = "X-Request-ID"
	HeaderRange        = "Range"
	HeaderContentRange = "Content-Range"
	HeaderAcceptRanges = "Accept-Ranges"
)
