package usecase

import (
	"encoding/json"
	"strings"

	"financeqa/internal/domain"
)

// answerSystemPrompt is the fixed grounding instruction set for the answer
// generator. The formatted knowledge base replaces {context} before sending.
const answerSystemPrompt = `You are a seasoned financial analyst tasked with providing the most relevant concise insights using the knowledge base available to you.

Follow these principles when responding:
* For financial queries, extract relevant information from the provided knowledge base to form your response.
* Even if the knowledge base doesn't directly answer the question, you must search for related data and insights within it.
* Assume that all financial questions relate to the content in the documents shared with you.
* For any questions unrelated to financial analysis, politely suggest that the user reframe their query to be more relevant to financial matters.
* If the knowledge base does not provide a definitive answer, acknowledge this while also sharing any useful details you can find within the available knowledge base.
* Make sure to provide references to the documents that support your response. The documents end with their reference. Provide at least one reference related to the company for each for which you provide information. If you didn't find any information related to that company, a reference is not needed.
* If the knowledge base is empty, provide a response that acknowledges the lack of information.
* Do not explicitly mention the knowledge base, just provide the response and references.

Knowledge base:
{context}

Supply the response in this JSON format only:
{
    "response": "string",
    "references": [
        {
            "year": int,
            "quarter": "string",
            "company": "string",
            "page": int
        }
    ]
}

An example response that you can use as a template:
{
    "response": "your response",
    "references": [
        {
            "year": 2023,
            "quarter": "Q1",
            "company": "Company X",
            "page": 3
        }
    ]
}`

// BuildAnswerMessages assembles the two-message exchange for the answer
// generator: grounding instructions with the rendered context, then the raw
// question.
func BuildAnswerMessages(question, context string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: strings.ReplaceAll(answerSystemPrompt, "{context}", context)},
		{Role: domain.RoleUser, Content: question},
	}
}

// BuildExtractionMessages assembles the single-message prompt that asks the
// generation service to name the documents relevant to the question.
func BuildExtractionMessages(documentNames []string, question string) []domain.Message {
	titles, _ := json.Marshal(documentNames)

	var sb strings.Builder
	sb.WriteString("A user has questions regarding some documents. They have the following titles:\n")
	sb.Write(titles)
	sb.WriteString("\nThe user's query is as follows: ")
	sb.WriteString(question)
	sb.WriteString(`

For example:
If the query is "What is the revenue of Apple in Q3 2023? Compare it to that of Microsoft in the same timeframe,"
the response should be:

{
    "list_of_docs": [
        {
            "year": 2023,
            "quarter": "Q3",
            "ticker": "AAPL"
        },
        {
            "year": 2023,
            "quarter": "Q3",
            "ticker": "MSFT"
        }
    ]
}

Supply the response in this JSON format only:
{
    "list_of_docs": [
        {
            "year": int,
            "quarter": string,
            "ticker": string
        }
    ]
}

Extract the document titles that are relevant to the query.`)

	return []domain.Message{{Role: domain.RoleSystem, Content: sb.String()}}
}
