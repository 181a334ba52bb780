// Package games реализует мини-игры: truth-or-dare, never-have-I-ever
// и шиппинг. content.go хранит фиксированные списки реплик.
package games

// truthQuestions — вопросы режима truth, по одному выбирается случайно.
var truthQuestions = []string{
	"What's the most embarrassing song on your playlist?",
	"What's the longest you've gone without showering?",
	"What's your biggest fear?",
	"What's your worst habit?",
	"What's the last lie you told?",
	"What's your biggest insecurity?",
	"What's the most childish thing you still do?",
	"What's your biggest regret?",
	"What's the worst thing you've ever done?",
	"What's your most controversial opinion?",
}

// dareChallenges — задания режима dare.
var dareChallenges = []string{
	"Send your last 5 photos from your gallery",
	"Send a voice message singing your favorite song",
	"Change your profile picture to a meme for 1 hour",
	"Text your crush 'I love pineapple on pizza'",
	"Send a selfie with a funny face",
	"Write a poem about the person above",
	"Tell a joke in a voice message",
	"Send your battery percentage",
	"Type like a robot for the next 10 minutes",
	"Share your most used emoji",
}

// nhiePrompts — реплики never-have-I-ever.
var nhiePrompts = []string{
	"Never have I ever sent a text to the wrong person",
	"Never have I ever pretended to be sick to skip work/school",
	"Never have I ever gone a whole day without using my phone",
	"Never have I ever stolen something",
	"Never have I ever lied about my age",
	"Never have I ever ghosted someone",
	"Never have I ever fallen asleep during a movie",
	"Never have I ever stalked an ex on social media",
	"Never have I ever forgotten someone's name while talking to them",
	"Never have I ever accidentally liked an old post while stalking",
}
