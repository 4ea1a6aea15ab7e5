package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandStart greets the user; it is not bound to a community.
const CommandStart = "start"

// communityCommands lists the recognized commands. Each command fetches the
// subreddit of the same name.
var communityCommands = []string{
	"learnpython",
	"python",
	"learnprogramming",
	"qualityassurance",
	"cscareerquestions",
	"softwaretesting",
	"chatgpt",
}

var communityByCommand = func() map[string]string {
	m := make(map[string]string, len(communityCommands))
	for _, c := range communityCommands {
		m[c] = c
	}
	return m
}()

// CommunityFor returns the subreddit bound to command.
func CommunityFor(command string) (string, bool) {
	community, ok := communityByCommand[strings.ToLower(strings.TrimSpace(command))]
	return community, ok
}

// MenuCommands is the command list published to Telegram's command menu.
func MenuCommands() []tgbotapi.BotCommand {
	cmds := make([]tgbotapi.BotCommand, 0, len(communityCommands)+1)
	cmds = append(cmds, tgbotapi.BotCommand{Command: CommandStart, Description: "Say hello"})
	for _, c := range communityCommands {
		cmds = append(cmds, tgbotapi.BotCommand{
			Command:     c,
			Description: "Most popular new post in r/" + c,
		})
	}
	return cmds
}
