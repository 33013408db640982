package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
)

const membershipTimeout = 10 * time.Second

// MembershipOracle answers channel-membership queries via the Bot API.
// Any API error fails closed at the caller.
type MembershipOracle struct {
	bot *telego.Bot
}

func NewMembershipOracle(bot *telego.Bot) *MembershipOracle {
	return &MembershipOracle{bot: bot}
}

func (o *MembershipOracle) IsMember(ctx context.Context, channelID string, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, membershipTimeout)
	defer cancel()

	member, err := o.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: parseChatID(channelID),
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check membership in %s: %w", channelID, err)
	}

	switch member.MemberStatus() {
	case telego.MemberStatusMember, telego.MemberStatusAdministrator, telego.MemberStatusCreator:
		return true, nil
	}
	return false, nil
}

func parseChatID(channelID string) telego.ChatID {
	if strings.HasPrefix(channelID, "@") {
		return telego.ChatID{Username: channelID}
	}
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return telego.ChatID{ID: id}
	}
	return telego.ChatID{Username: "@" + channelID}
}
