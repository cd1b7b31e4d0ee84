package agent

const (
	SYSTEM_PROMPT = `You are an agent acting in a reinforcement learning environment. At every step you observe the current state and must pick exactly one of the allowed actions. Each step yields a reward; your goal is to maximise the total reward collected before the episode ends.`

	ACTION_PROMPT_TEMPLATE = `Your name is %s.
The current state is: %s
The allowed actions are: %s

Very briefly think step by step about which action brings you closer to a high reward, using what you remember from previous steps. Then provide your answer. Your answer should follow the string "ANSWER" like so: ANSWER: <action>`

	RETRY_PROMPT_TEMPLATE = `Your previous response did not include the required format. Here was your response:

%s

Please answer again with exactly one of these actions: %s. Your answer must follow the string "ANSWER" like so: ANSWER: <action>`

	TRANSITION_MEMORY_TEMPLATE = `In state %s I chose %s, received a reward of %.2f and reached state %s.`

	EPISODE_END_MEMORY = `The episode ended there.`
)
