package advisor

import "fmt"

// FollowUpPrefix introduces follow-up questions generated from an image
const FollowUpPrefix = "IMAGE ANALYSIS SUGGESTS THESE FOLLOW-UP QUESTIONS:\n"

const advicePromptTemplate = `You are an expert botanist and plant care specialist. 
Provide detailed, professional advice for this plant issue:

Problem: %s

Analysis:
1. Identify the most likely causes (3-5 possibilities)
2. Explain each cause in simple terms
3. Provide step-by-step solutions
4. Include preventive measures

Format your response with clear headings and bullet points.`

const followUpPromptTemplate = `Based on this plant image analysis:
%s

Generate 2-3 follow-up questions the user might ask to get more specific advice about their plant's condition.
Format as a numbered list with brief explanations why each question would be helpful.`

// AdvicePrompt builds the prompt for a free-text problem description
func AdvicePrompt(problem string) string {
	return fmt.Sprintf(advicePromptTemplate, problem)
}

// FollowUpPrompt builds the prompt for a diagnosis produced from an image
func FollowUpPrompt(diagnosis string) string {
	return fmt.Sprintf(followUpPromptTemplate, diagnosis)
}
