package roles

// Option maps one reaction on the role-selection message to a guild role.
type Option struct {
	Emoji       string
	RoleName    string
	Description string
	Greeting    string

	// Animated is also set when Emoji is given in the "<a:name:id>" form.
	Animated bool
}

var DefaultOptions = []Option{
	{
		Emoji:       "autonomous_vehicle:1148337868201267270",
		RoleName:    "Autonomous Vehicle Design Team",
		Description: "if you are interested in participating in our Autonomous Vehicle design team",
		Greeting: "You have been assigned the Autonomous Vehicle Design Team role! Here you can find the latest updates on our " +
			"Autonomous Vehicle projects. If you are a member of this project, please reach out to Lorenz Carvajal or Alex Lyew " +
			"to join your team's channels!",
	},
	{
		Emoji:       "kotlin:1148337119442518036",
		RoleName:    "Kotlin App",
		Description: "if you are interested in participating in our Kotlin Mobile App design team",
		Greeting: "You have been assigned the Kotlin App role! Here you can find the latest updates on our Android Mobile App " +
			"project. If you are a member for this project, please reach out to Miguel Tejeda to join your team's channels!",
	},
	{
		Emoji:       "swift:1148337328415322172",
		RoleName:    "Swift App",
		Description: "if you are interested in participating in our Swift Mobile App design team",
		Greeting: "You have been assigned the Swift App role! Here you can find the latest updates on our iOS Mobile App " +
			"project. If you are a member for this project, please reach out to Jesus Lopez to join your team's channels!",
	},
	{
		Emoji:       "leetcode:1148349688924340314",
		RoleName:    "Interview Prep",
		Description: "if you are interested in getting notified on our technical interview office hours",
		Greeting: "You have been assigned the Interview Prep role! Here you can join us in our technical prep office hours, " +
			"sign up for mock interviews and solve a LeetCode Question of the Week. If you have any questions, feel free to " +
			"reach out to Mateo Slivka, Santiago Barrios or Diego Santos Gonzalez!",
	},
}
