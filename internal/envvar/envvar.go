package envvar

const (
	// TTSFormEnv is the environment variable used to determine the environment
	TTSFormEnv = "TTSFORM_ENV"

	// TTSFormServerHTTPPort is the environment variable used to determine the HTTP port
	TTSFormServerHTTPPort = "TTSFORM_SERVER_HTTP_PORT"

	// TTSFormServerGRPCPort is the environment variable used to determine the gRPC port
	TTSFormServerGRPCPort = "TTSFORM_SERVER_GRPC_PORT"

	// TTSFormAPIKey overrides the bearer token sent to the speech endpoint
	TTSFormAPIKey = "TTSFORM_API_KEY"

	// TTSFormLogFile is the environment variable used to set the log file path
	TTSFormLogFile = "TTSFORM_LOG_FILE"
)
