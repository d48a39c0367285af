package dashboard

import "net/url"

func StreamURL(relayPath string, target string) string {
	return relayPath + "?url=" + url.QueryEscape(target)
}
