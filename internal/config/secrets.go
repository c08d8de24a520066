package config

import "net/url"

const redacted = "***"

// RedactedConfig returns a copy of cfg that is safe to log. Passwords, keys
// and tokens become "***"; a DSN keeps its host and database but loses the
// password.
func RedactedConfig(cfg *Config) Config {
	out := *cfg

	out.Supabase.DSN = redactDSN(cfg.Supabase.DSN)
	for _, s := range []*string{
		&out.Supabase.Password,
		&out.Redis.Password,
		&out.S3.AccessKey,
		&out.S3.SecretKey,
		&out.Notify.TelegramToken,
		&out.Notify.DiscordWebhookURL,
	} {
		if *s != "" {
			*s = redacted
		}
	}

	out.Scan.ExcludeTags = cloneStrings(cfg.Scan.ExcludeTags)
	out.Scan.ExcludeKeywords = cloneStrings(cfg.Scan.ExcludeKeywords)
	return out
}

// redactDSN masks the password of a URL-style DSN with "xxxxx". Anything
// it cannot parse is masked whole.
func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return redacted
	}
	return u.Redacted()
}

// cloneStrings copies s, keeping nil and empty apart.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
