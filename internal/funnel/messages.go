package funnel

import (
	"fmt"
	"strings"
	"time"

	"musky-bot/internal/config"
)

// Menu commands as rendered on the reply keyboard.
const (
	CmdRefer    = "👥 Refer and Earn"
	CmdBalance  = "💰 Balance"
	CmdAbout    = "ℹ️ About MUSKY"
	CmdWithdraw = "💸 Withdraw"
)

const aboutMsg = `ℹ️ About MUSKY Token ℹ️

🚀 MUSKY is the next generation community-driven token
💫 Built on Solana for lightning-fast transactions
🌐 Powering the future of decentralized finance

📊 Tokenomics:
• Total Supply: 1,000,000,000 MUSKY
• Airdrop: 10%
• Liquidity: 40%
• Development: 20%
• Marketing: 20%
• Team: 10%

🔒 Contract will be audited by CertiK`

func welcomeFunnelMsg(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("🌟 Welcome to MUSKY Token Airdrop! 🌟\n\n")
	b.WriteString("🎁 Complete simple tasks to earn tokens worth $15!\n\n")
	b.WriteString("Step 1️⃣: Join our channels:\n")
	for _, ch := range cfg.Channels {
		fmt.Fprintf(&b, "• %s\n", ch.Handle)
	}
	fmt.Fprintf(&b, "• %s\n", cfg.GroupLink)
	fmt.Fprintf(&b, "• Type 'MUSKY TO MOON' in the group %s\n\n", cfg.GroupLink)
	b.WriteString("Click 🟢 Continue when done! 👇")
	return b.String()
}

func welcomeMenuMsg(cfg *config.Config, balance int64) string {
	var b strings.Builder
	b.WriteString("🌟 Welcome to MUSKY Token Airdrop! 🌟\n\n")
	b.WriteString("🚀 Get ready for an exciting journey into the MUSKY ecosystem!\n")
	fmt.Fprintf(&b, "💰 Start with %d MUSKY tokens\n", balance)
	fmt.Fprintf(&b, "🎁 Earn %d MUSKY for each referral\n\n", cfg.ReferralBonus)
	b.WriteString("Use the menu buttons below to:\n")
	b.WriteString("👥 Share your referral link\n")
	b.WriteString("💰 Check your balance\n")
	b.WriteString("ℹ️ Learn about MUSKY\n")
	b.WriteString("💸 Withdraw tokens\n\n")
	b.WriteString("Let's get started! 🎉")
	return b.String()
}

func missingChannelsMsg(missing []string) string {
	return fmt.Sprintf(
		"❌ Please join all our channels first:\n%s\n\nOnce you've joined, click the button below! 👇",
		strings.Join(missing, ", "),
	)
}

const retryChannelsMsg = "❌ Oops! Something went wrong.\n" +
	"Please make sure you've joined all channels and try again! 👇"

func socialStepMsg(cfg *config.Config) string {
	return fmt.Sprintf(
		"✨ Amazing! Let's continue!\n\nStep 2️⃣: Visit our Twitter:\n• %s\n\nClick 🟢 Continue after checking! 👇",
		cfg.TwitterLink,
	)
}

const addressStepMsg = "🎉 Final Step! 🎉\n\n" +
	"Step 3️⃣: Drop your Solana address below\n" +
	"💎 You'll receive tokens worth $15!\n\n" +
	"⚠️ Address must be less than 100 characters"

const addressTooLongMsg = "❌ Address too long! Please enter a shorter address (max 100 characters)."

func completionMsg(initial int64, referralText string) string {
	return fmt.Sprintf(
		"🎊 Congratulations! 🎊\n\n💰 You've received %d MUSKY tokens (~$15)!%s\n\n🚀 Use the menu below to start earning more!",
		initial, referralText,
	)
}

const requireStartMsg = "❌ Please complete the verification process first.\nUse /start to begin verification."

const tryAgainMsg = "❌ Something went wrong on our side. Please try again!"

func referrerGreetingMsg(referrerName string) string {
	return fmt.Sprintf("🎉 You were referred by %s!", referrerName)
}

func referMsg(cfg *config.Config, botUsername string, userID int64, referralCount int) string {
	link := fmt.Sprintf("https://t.me/%s?start=ref_%d", botUsername, userID)
	return fmt.Sprintf(`🎁 Share Your Referral Link 🎁

💰 Earn %d MUSKY tokens (~$30) for each friend you invite!

🔗 Your referral link:
%s

📊 Stats:
👥 Current referrals: %d
💎 Total earned: %d MUSKY`,
		cfg.ReferralBonus, link, referralCount, int64(referralCount)*cfg.ReferralBonus)
}

func balanceMsg(cfg *config.Config, balance int64, referralCount int, now time.Time) string {
	return fmt.Sprintf(`💰 Your MUSKY Balance 💰

Current Balance: %d MUSKY (~$%.2f)
👥 Referrals: %d
💎 Referral Earnings: %d MUSKY

🎯 Minimum withdrawal: %d MUSKY
⏳ Time until launch: %s`,
		balance, float64(balance)/67,
		referralCount,
		int64(referralCount)*cfg.ReferralBonus,
		cfg.MinimumWithdraw,
		Countdown(cfg.LaunchDate, now))
}

func withdrawAcceptedMsg(reference string) string {
	return fmt.Sprintf(
		"💸 Your withdrawal request has been recorded.\nReference: %s\nTokens will be distributed after launch! 🚀",
		reference,
	)
}

func withdrawShortfallMsg(cfg *config.Config, balance int64) string {
	return fmt.Sprintf(
		"❌ You need at least %d MUSKY tokens to withdraw.\nCurrent balance: %d MUSKY\nKeep referring to earn more! 🚀",
		cfg.MinimumWithdraw, balance,
	)
}

// Countdown renders the remaining time to launch, floored at zero.
func Countdown(launch, now time.Time) string {
	remaining := launch.Sub(now)
	if remaining <= 0 {
		return "🚀 Launch time!"
	}
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}
