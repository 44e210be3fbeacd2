package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// GMSystemPrompt is sent ahead of every narration request.
const GMSystemPrompt = `You are the Game Master of a Werewolf game set in a medieval village. You narrate in a dark, suspenseful voice. You never reveal hidden roles unless the prompt tells you a role has been revealed. You never mention that you are an AI. Keep every answer short and in plain prose with no markdown.`

const openingStoryTemplate = `You are a gifted storyteller. Write a unique, gripping backstory for a game of Werewolf.
The story takes place in a medieval village. Season: '%s'. Time of day: '%s'. Location: '%s'.
Use 2-3 sentences and build a mysterious, suspenseful mood.`

const openingSceneTemplate = `An exquisite Werewolf-themed illustration in the style of a dark fantasy oil painting.
Scene: the season is '%s' and the time is '%s'. At '%s', %d characters including the player '%s' are gathered together. They look suspicious and the air is tense.`

const roleRevealTemplate = `A dramatic close-up character portrait. Close-up of '%s', whose role is %s. The expression is resolute and the background subtly weaves in symbols of the role. Digital art, high contrast.`

const discussionTemplate = `You are the Game Master (GM) of a Werewolf game. It is the discussion on day %d.
The living characters are:
%s

Just now the player '%s' said: '%s'

Simulate the discussion that follows, based on each AI character's personality.
Rules:
1. Pick 2 to 3 AI characters to respond to the player.
2. Their replies must match their personalities exactly.
3. Let them interact briefly with each other where it fits.
4. Finish with a short GM summary that encourages more discussion or getting ready to vote.
5. Reply with plain dialogue and GM narration only, with no extra formatting.`

const discussionSceneTemplate = `Dark fantasy oil painting. Scene: in the village square the surviving villagers argue heatedly and the mood is tense. Based on the exchange '%s' / '%s', some point fingers and some look afraid.`

const voteResultTemplate = `You are the Game Master of a Werewolf game. The vote is in: %s has been voted out. Their role was %s.
Describe the result in 2-3 sentences and make it dramatic.`

const keepsakeTemplate = `A gloomy, emotional close-up digital painting of an object left behind by the eliminated character '%s'. The object, such as a dropped locket or a worn book, symbolises that their role was %s. The background is blurred and dark.`

const newDaySceneTemplate = `Dark fantasy oil painting. The surviving villagers gather in the village square. On day %d the mood is even more tense and everyone suspects everyone else.`

const discoveryTemplate = `At dawn on day %d the villagers gather fearfully in the square. They discover that '%s' was taken in the night. Describe this grim discovery and reveal that their role was '%s'. (2-3 sentences at most)`

const discoverySceneTemplate = `Dark fantasy oil painting. The surviving villagers crowd around the town well, shocked and suspicious. The body of '%s' lies covered by a cloth on the ground. The air is tense.`

// Fixed GM lines and fallbacks.
const (
	DefaultNarration        = "The Game Master is lost in thought..."
	OpeningFallback         = "An old tale is still told in this place..."
	DiscussionFallback      = "The AI characters fall silent..."
	ReadyToVoteAnnouncement = "Discussion time is over. Voting begins now: choose the person you find most suspicious to eliminate."
	VillagersWinMessage     = "All werewolves have been eliminated! The villagers win!"
	WerewolvesWinMessage    = "The werewolves now equal or outnumber the villagers! The werewolves win!"
	NoTargetsMessage        = "There are no more targets. The game is over."
	MatchOverMessage        = "The match is over. Start a new game to play again."
)

// OpeningStory asks for the backstory told at setup.
func OpeningStory(ctx match.SceneContext) string {
	return fmt.Sprintf(openingStoryTemplate, ctx.Season, ctx.TimeOfDay, ctx.Location)
}

// FirstDayAnnouncement is the fixed line that follows the opening story.
func FirstDayAnnouncement(ctx match.SceneContext) string {
	return fmt.Sprintf("It is the %s of the first day, and you have all gathered here...", ctx.TimeOfDay)
}

// OpeningScene describes the setup illustration.
func OpeningScene(ctx match.SceneContext, playerName string, seatCount int) string {
	return fmt.Sprintf(openingSceneTemplate, ctx.Season, ctx.TimeOfDay, ctx.Location, seatCount, playerName)
}

// RoleReveal describes the portrait revealing the human's role.
func RoleReveal(seat match.Seat) string {
	return fmt.Sprintf(roleRevealTemplate, seat.Name, seat.Role)
}

// Discussion asks for the AI characters' replies to the human.
func Discussion(day int, alive []match.Seat, speaker, message string) string {
	var sb strings.Builder
	for i, s := range alive {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("- %s (personality: %s)", s.Name, s.Persona))
	}
	return fmt.Sprintf(discussionTemplate, day, sb.String(), speaker, message)
}

// DiscussionScene describes the illustration refreshed after talk.
func DiscussionScene(message, reply string) string {
	return fmt.Sprintf(discussionSceneTemplate, message, reply)
}

// VoteResult asks for the narration of an elimination by vote.
func VoteResult(name string, role match.Role) string {
	return fmt.Sprintf(voteResultTemplate, name, role)
}

// VoteResultFallback is used when the vote narration cannot be generated.
func VoteResultFallback(name string) string {
	return fmt.Sprintf("The vote is over. %s has been eliminated.", name)
}

// Keepsake describes the event image for an eliminated seat.
func Keepsake(name string, role match.Role) string {
	return fmt.Sprintf(keepsakeTemplate, name, role)
}

// NewDayAnnouncement is the fixed line that opens a day after a vote.
func NewDayAnnouncement(day int) string {
	return fmt.Sprintf("Day %d begins. The survivors gather once more to search for the truth...", day)
}

// NewDayScene describes the illustration for a new day after a vote.
func NewDayScene(day int) string {
	return fmt.Sprintf(newDaySceneTemplate, day)
}

// Discovery asks for the narration of a seat lost in the night.
func Discovery(day int, name string, role match.Role) string {
	return fmt.Sprintf(discoveryTemplate, day, name, role)
}

// DiscoveryScene describes the illustration of a night discovery.
func DiscoveryScene(name string) string {
	return fmt.Sprintf(discoverySceneTemplate, name)
}

// HumanVote is the log line recording the human's ballot.
func HumanVote(target string) string {
	return fmt.Sprintf("I vote for %s.", target)
}

// UnknownTarget is the GM error line for a vote naming no seat.
func UnknownTarget(target string) string {
	return fmt.Sprintf("Error: there is no character named %s.", target)
}

// UnknownAction is the GM error line for an unrecognised action.
func UnknownAction(name string) string {
	return fmt.Sprintf("(Error) Unknown action: %s", name)
}

// WrongPhase is the GM error line for an action outside its phase.
func WrongPhase(action string, phase match.Phase) string {
	return fmt.Sprintf("(Error) %s is not allowed during the %s phase.", action, phase)
}

// DeadTarget is the GM error line for a vote naming an eliminated seat.
func DeadTarget(target string) string {
	return fmt.Sprintf("Error: %s has already been eliminated.", target)
}
