package engine

var Prompts = []string{
	"The quick brown fox jumps over the lazy dog. This pangram contains every letter of the alphabet at least once.",
	"Programming is the art of telling another human being what one wants the computer to do.",
	"The best way to predict the future is to implement it. Write code that makes a difference.",
	"Simplicity is the ultimate sophistication. Clean code is not just about aesthetics.",
	"The only way to learn a new programming language is by writing programs in it.",
	"Debugging is twice as hard as writing the code in the first place. Therefore, if you write the code as cleverly as possible, you are, by definition, not smart enough to debug it.",
	"Any fool can write code that a computer can understand. Good programmers write code that humans can understand.",
	"The most damaging phrase in the language is 'We've always done it this way.'",
	"Code never lies, comments sometimes do. Write self-documenting code.",
	"The best error message is the one that never shows up. Write robust code.",
}
