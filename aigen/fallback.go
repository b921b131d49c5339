package aigen

import (
	"fmt"

	"github.com/studynet/studynet"
)

const fallbackQuizTitle = "Quiz based on the summary"

// fallbackQuestions is the deterministic question set used when no live
// backend is reachable.
var fallbackQuestions = []studynet.Question{
	{
		Question: "What is the Pythagorean theorem?",
		Options: map[string]string{
			"A": "a² + b² = c²",
			"B": "a + b = c",
			"C": "a² - b² = c²",
			"D": "a × b = c",
		},
		CorrectAnswer: "A",
	},
	{
		Question: "What is the quadratic formula?",
		Options: map[string]string{
			"A": "x = [-b ± √(b² - 4ac)] / 2a",
			"B": "x = b ± √(b² - 4ac)",
			"C": "x = [-b ± √(b² + 4ac)] / 2a",
			"D": "x = b ± √(b² + 4ac)",
		},
		CorrectAnswer: "A",
	},
	{
		Question: "What is the value of π (pi) to two decimal places?",
		Options: map[string]string{
			"A": "3.14",
			"B": "3.16",
			"C": "3.12",
			"D": "3.18",
		},
		CorrectAnswer: "A",
	},
	{
		Question: "What is the derivative of x²?",
		Options: map[string]string{
			"A": "2x",
			"B": "x²",
			"C": "2",
			"D": "x",
		},
		CorrectAnswer: "A",
	},
}

// FallbackSummary builds a deterministic summary from the highlights alone.
func FallbackSummary(highlights []Highlight, collectionTitle string) string {
	if collectionTitle == "" {
		collectionTitle = "Study Collection"
	}

	return fmt.Sprintf(`Summary of %s

This is a summary of the selected highlights from your study collection.

Key Points:
%s
This summary provides an overview of the main concepts and ideas from your selected highlights. For more detailed analysis, consider reviewing the original source materials.`,
		collectionTitle, highlightsText(highlights))
}

// FallbackQuiz returns up to numQuestions questions from the static set.
func FallbackQuiz(numQuestions int) Quiz {
	if numQuestions <= 0 || numQuestions > len(fallbackQuestions) {
		numQuestions = len(fallbackQuestions)
	}

	questions := make([]studynet.Question, numQuestions)
	copy(questions, fallbackQuestions[:numQuestions])

	return Quiz{
		Title:     fallbackQuizTitle,
		Questions: questions,
	}
}
