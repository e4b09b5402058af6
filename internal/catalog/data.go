package catalog

var cet4Entries = []Entry{
	{"abandon", "to give up completely", "He abandoned his car in the snow."},
	{"ability", "the skill or capacity to do something", "She has the ability to speak three languages."},
	{"absolute", "complete and total", "There was absolute silence in the room."},
	{"academic", "relating to education and study", "He is an academic researcher."},
	{"accept", "to agree to receive something", "I accept your invitation."},
	{"access", "the ability to enter or use something", "Students have access to the library."},
	{"accident", "an unfortunate event that happens unexpectedly", "He was injured in a car accident."},
	{"accompany", "to go somewhere with someone", "She accompanied me to the meeting."},
	{"accomplish", "to achieve or complete successfully", "We accomplished our goal."},
	{"according", "as stated by or in", "According to the report, sales increased."},
	{"account", "a record of money spent and received", "Please check your bank account."},
	{"accurate", "correct in all details", "The weather forecast was accurate."},
	{"achieve", "to successfully complete something", "She achieved her dream of becoming a doctor."},
	{"acquire", "to get or gain something", "He acquired a new skill."},
	{"action", "the process of doing something", "We need to take action immediately."},
	{"active", "engaging in activity", "She is very active in sports."},
	{"activity", "something that you do", "Reading is a good activity."},
	{"actual", "real or existing", "The actual cost was higher than expected."},
	{"address", "the location where someone lives", "What is your home address?"},
	{"administration", "the management of a business or organization", "The administration is working on the problem."},
}

var ieltsEntries = []Entry{
	{"abundant", "existing in large quantities", "The region has abundant natural resources."},
	{"academic", "relating to education and study", "He is pursuing academic excellence."},
	{"access", "the ability to enter or use something", "The building has wheelchair access."},
	{"accommodate", "to provide space for someone", "The hotel can accommodate 200 guests."},
	{"accompany", "to go somewhere with someone", "She accompanied me to the meeting."},
	{"accomplish", "to achieve or complete successfully", "We accomplished our mission."},
	{"accumulate", "to gradually increase in amount", "Dust accumulates on the furniture."},
	{"accurate", "correct in all details", "The measurement was accurate."},
	{"achieve", "to successfully complete something", "She achieved her goals."},
	{"acknowledge", "to accept or admit something", "He acknowledged his mistake."},
	{"acquire", "to get or gain something", "She acquired new skills."},
	{"adapt", "to change to suit new conditions", "Animals adapt to their environment."},
	{"adequate", "satisfactory or acceptable", "The salary is adequate for my needs."},
	{"adjacent", "next to or near something", "The hotel is adjacent to the beach."},
	{"adjust", "to change something slightly", "Please adjust the temperature."},
	{"administer", "to manage or organize something", "The nurse administered the medicine."},
	{"adopt", "to take up or start to use", "The company adopted new policies."},
	{"advance", "to move forward", "The army advanced towards the city."},
	{"advantage", "a beneficial factor", "Experience is an advantage."},
	{"adverse", "preventing success or development", "The weather had an adverse effect."},
}

var toeflEntries = []Entry{
	{"abandon", "to give up completely", "He abandoned his studies."},
	{"abundant", "existing in large quantities", "The area has abundant wildlife."},
	{"academic", "relating to education and study", "She has academic qualifications."},
	{"access", "the ability to enter or use something", "Students have access to the library."},
	{"accommodate", "to provide space for someone", "The room can accommodate 50 people."},
	{"accompany", "to go somewhere with someone", "She accompanied me to the store."},
	{"accomplish", "to achieve or complete successfully", "We accomplished our task."},
	{"accumulate", "to gradually increase in amount", "Snow accumulated on the ground."},
	{"accurate", "correct in all details", "The clock is accurate."},
	{"achieve", "to successfully complete something", "He achieved his dream."},
	{"acknowledge", "to accept or admit something", "She acknowledged her error."},
	{"acquire", "to get or gain something", "He acquired new knowledge."},
	{"adapt", "to change to suit new conditions", "Plants adapt to climate change."},
	{"adequate", "satisfactory or acceptable", "The food was adequate."},
	{"adjacent", "next to or near something", "The park is adjacent to the school."},
	{"adjust", "to change something slightly", "Please adjust the volume."},
	{"administer", "to manage or organize something", "The doctor administered treatment."},
	{"adopt", "to take up or start to use", "The school adopted new methods."},
	{"advance", "to move forward", "Technology continues to advance."},
	{"advantage", "a beneficial factor", "Experience is a great advantage."},
}
