package ports

// Имя и версия сервиса — уходят в метаданные форвардинга и в корневой эндпоинт.
const (
	ServiceName    = "channel-adapter"
	ServiceVersion = "2.0.0"
)
