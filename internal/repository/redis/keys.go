package redis

import "fmt"

const ns = "matchday:v1"

func KeyMatchSummary(matchID int64) string {
	return fmt.Sprintf("%s:match:%d:summary", ns, matchID)
}

func KeyMatchList() string {
	return ns + ":matches:list"
}

func KeyMatchSeats(matchID int64) string {
	return fmt.Sprintf("%s:match:%d:seats", ns, matchID)
}
