package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings hold identifiers and secrets, ints hold
// durations expressed in the unit their name states.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    SteamAPIKey    string // Steam Web API key used to fetch player summaries
    SteamRealm     string // OpenID realm, the public base URL of this service
    SteamReturnURL string // absolute URL Steam redirects back to after login
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The access token TTL
// defaults to 24 hours when ACCESS_TOKEN_TTL_MIN is unset.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),             // environment (dev/test/prod)
        Port:           must("APP_PORT"),            // port to bind the HTTP server
        DBUser:         must("DB_USER"),             // database user
        DBPass:         os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:         must("DB_HOST"),             // database host
        DBPort:         must("DB_PORT"),             // database port
        DBName:         must("DB_NAME"),             // database name
        JWTSecret:      must("JWT_SECRET"),          // secret used for signing JWTs
        AccessTTLMin:   intOr("ACCESS_TOKEN_TTL_MIN", 1440),   // session tokens live 24h by default
        RefreshTTLDays: intOr("REFRESH_TOKEN_TTL_DAYS", 30),   // refresh tokens live 30 days by default
        SteamAPIKey:    must("STEAM_API_KEY"),       // required to resolve profiles after login
        SteamRealm:     must("STEAM_REALM"),         // e.g. http://localhost:8080
        SteamReturnURL: must("STEAM_RETURN_URL"),    // e.g. http://localhost:8080/v1/auth/steam/return
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intOr retrieves an optional integer environment variable, returning def
// when the variable is unset or empty.  A set but unparsable value causes
// a fatal error rather than silently running with a wrong TTL.
func intOr(key string, def int) int {
    s, ok := os.LookupEnv(key)
    if !ok || s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
