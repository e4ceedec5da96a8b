package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	SESSION_ID_KEY              = "sessionId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	RateLimiterIdleTTL          = 10 * time.Minute

	//session cookie / header
	SessionCookieName = "csvagent_session"
	SessionHeaderName = "X-Session-Id"
	SessionTTL        = 24 * time.Hour

	//dispatch pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	BufferLimit                     = 100

	//serverTimeouts - agent calls can run long, write timeout has to cover them
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 5 * time.Minute
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//upload limits
	MaxUploadSize       = 64 << 20 //64mb zip
	MultipartMemory     = 8 << 20
	MaxArchiveEntries   = 1000
	MaxExtractedFile    = 50 << 20
	MaxExtractedTotal   = 200 << 20
	DefaultScratchDir   = "temp_csvs"
	TabularFileSuffix   = ".csv"
	DefaultPreviewRows  = 5
	MaxPreviewRows      = 100
	MaxInteractionsPage = 100

	//agent
	DefaultOpenAIModel         = "gpt-4o-mini"
	GeminiModelName            = "gemini-2.5-flash-lite-preview-09-2025"
	ModelTemperature   float32 = 0
	MaxAgentSteps              = 8
	MaxToolResultRows          = 50
	ModelContext               = "You are a data analyst working on a single CSV file loaded as the DuckDB table `data`. " +
		"Answer the user's question about it. Use the run_sql tool to inspect and compute over the data; " +
		"never guess numbers you have not computed. Reply in the language of the question, concisely, " +
		"using markdown where it helps."

	//document store
	InteractionCollection = "interacoes"
	FirestoreProbeTimeout = 10 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisSessionStore     = 0
	RedisInteractionStore = 1

	RedisPingTimeout = 3 * time.Second
)
