package knowledge

// Default returns the built-in St. Xavier's College knowledge base.
func Default() *Store {
	return &Store{
		College: College{
			Name:            "St. Xavier's College",
			Established:     "1965",
			Affiliation:     "University of Delhi",
			Accreditation:   "NAAC 'A' Grade",
			Location:        "Rajpur Road, Civil Lines, New Delhi - 110054",
			Phone:           "+91-11-2397-XXXX",
			Email:           "info@stxaviers.edu.in",
			AdmissionsEmail: "admissions@stxaviers.edu.in",
		},
		Courses: []Course{
			{
				Name:        "B.A. (Hons) English",
				Duration:    "3 Years",
				Seats:       120,
				Description: "Comprehensive study of English literature and language with career opportunities in media, publishing, and education.",
				Eligibility: "Class 12th pass with minimum 50% marks",
			},
			{
				Name:        "B.Sc. (Hons) Computer Science",
				Duration:    "3 Years",
				Seats:       80,
				Description: "Advanced computer science curriculum covering programming, algorithms, AI, and software development.",
				Eligibility: "Class 12th pass with Mathematics and minimum 60% marks",
			},
			{
				Name:        "B.Com (Hons)",
				Duration:    "3 Years",
				Seats:       150,
				Description: "Commerce education with focus on accounting, finance, taxation, and business management.",
				Eligibility: "Class 12th pass with Commerce stream and minimum 55% marks",
			},
			{
				Name:        "B.A. (Hons) Economics",
				Duration:    "3 Years",
				Seats:       100,
				Description: "Study of economic theory, policy analysis, and quantitative methods with excellent career prospects.",
				Eligibility: "Class 12th pass with Mathematics and minimum 55% marks",
			},
			{
				Name:        "B.Sc. (Hons) Mathematics",
				Duration:    "3 Years",
				Seats:       60,
				Description: "Advanced mathematics curriculum covering pure and applied mathematics.",
				Eligibility: "Class 12th pass with Mathematics and minimum 60% marks",
			},
			{
				Name:        "B.A. (Hons) Psychology",
				Duration:    "3 Years",
				Seats:       80,
				Description: "Comprehensive psychology program with practical training and research opportunities.",
				Eligibility: "Class 12th pass with minimum 50% marks",
			},
		},
		Admissions: Admissions{
			Year:                "2025-26",
			ApplicationStart:    "May 15, 2025",
			ApplicationDeadline: "June 30, 2025",
			MeritListRelease:    "July 15, 2025",
			ClassesCommence:     "August 1, 2025",
			Process: []string{
				"Fill the online application form on DU portal",
				"Pay the application fee",
				"Check merit lists on our website",
				"Complete document verification",
				"Pay admission fees to confirm seat",
			},
			GeneralEligibility: "Candidates must have passed Class 12th examination from a recognized board with the required percentage as per course requirements.",
		},
		Facilities: []Facility{
			{Name: "Library", Description: "Modern library with over 100,000 books, journals, and digital resources"},
			{Name: "Computer Labs", Description: "Well-equipped labs with latest technology and high-speed internet"},
			{Name: "Sports Complex", Description: "Indoor and outdoor sports facilities including gym, basketball, and cricket"},
			{Name: "Auditorium", Description: "State-of-the-art auditorium for cultural events and seminars"},
			{Name: "Cafeteria", Description: "Hygienic cafeteria serving nutritious meals and snacks"},
			{Name: "Transport", Description: "College bus service covering major routes across the city"},
		},
		Stats: Stats{
			Students:          "5000+",
			Faculty:           "200+",
			YearsOfExcellence: "50+",
			PlacementRate:     "95%",
		},
		OfficeHours: OfficeHours{
			Weekdays: "Monday - Friday: 9:00 AM - 5:00 PM",
			Saturday: "Saturday: 9:00 AM - 1:00 PM",
			Sunday:   "Closed",
		},
		FAQ: []FAQCategory{
			{
				Name:     "greeting",
				Keywords: []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"},
				Answer: Choice(
					"Hello! Welcome to St. Xavier's College. How can I help you today?",
					"Hi there! I'm here to assist you with information about St. Xavier's College. What would you like to know?",
					"Greetings! Feel free to ask me anything about our college, courses, admissions, or facilities.",
				),
			},
			{
				Name:     "courses",
				Keywords: []string{"course", "courses", "program", "programs", "degree", "study", "what courses", "available courses"},
				Answer:   Single("We offer the following undergraduate courses:\n\n1. B.A. (Hons) English - 120 seats\n2. B.Sc. (Hons) Computer Science - 80 seats\n3. B.Com (Hons) - 150 seats\n4. B.A. (Hons) Economics - 100 seats\n5. B.Sc. (Hons) Mathematics - 60 seats\n6. B.A. (Hons) Psychology - 80 seats\n\nWould you like to know more about any specific course?"),
			},
			{
				Name:     "admissions",
				Keywords: []string{"admission", "apply", "application", "how to apply", "admission process", "when to apply"},
				Answer:   Single("Admissions for 2025-26:\n\n📅 Application Start: May 15, 2025\n📅 Application Deadline: June 30, 2025\n📅 Merit List Release: July 15, 2025\n📅 Classes Start: August 1, 2025\n\nAdmission Process:\n1. Fill online application on DU portal\n2. Pay application fee\n3. Check merit lists\n4. Document verification\n5. Pay admission fees\n\nWould you like to know about eligibility criteria?"),
			},
			{
				Name:     "fees",
				Keywords: []string{"fee", "fees", "cost", "tuition", "how much", "price"},
				Answer:   Single("For detailed fee structure, please:\n📧 Email: admissions@stxaviers.edu.in\n📞 Call: +91-11-2397-XXXX\n\nFees vary by course. Our admission team will provide you with the complete fee structure for your chosen course."),
			},
			{
				Name:     "facilities",
				Keywords: []string{"facility", "facilities", "infrastructure", "amenities", "library", "lab", "sports"},
				Answer:   Single("Our college offers excellent facilities:\n\n📚 Library - 100,000+ books and digital resources\n💻 Computer Labs - Latest technology\n🏋️ Sports Complex - Gym, basketball, cricket\n🎭 Auditorium - For events and seminars\n🍽️ Cafeteria - Nutritious meals\n🚌 Transport - College bus service\n\nWould you like details about any specific facility?"),
			},
			{
				Name:     "contact",
				Keywords: []string{"contact", "phone", "email", "address", "location", "where", "how to reach"},
				Answer:   Single("📍 Address: Rajpur Road, Civil Lines, New Delhi - 110054\n\n📞 Phone: +91-11-2397-XXXX\n📧 Email: info@stxaviers.edu.in\n📧 Admissions: admissions@stxaviers.edu.in\n\n⏰ Office Hours:\nMon-Fri: 9:00 AM - 5:00 PM\nSaturday: 9:00 AM - 1:00 PM"),
			},
			{
				Name:     "placement",
				Keywords: []string{"placement", "placements", "job", "career", "recruitment", "companies"},
				Answer:   Single("St. Xavier's College has an excellent placement record with 95% placement rate! Our placement cell actively works with top companies across various sectors including IT, Finance, Consulting, and Education.\n\nFor detailed placement statistics and company list, please contact our placement cell at info@stxaviers.edu.in"),
			},
			{
				Name:     "eligibility",
				Keywords: []string{"eligibility", "eligible", "qualification", "criteria", "requirement", "12th marks"},
				Answer:   Single("General Eligibility: Class 12th pass from recognized board\n\nCourse-specific requirements:\n• English/Psychology: 50% minimum\n• Economics: 55% + Mathematics\n• Commerce: 55% minimum\n• Computer Science: 60% + Mathematics\n• Mathematics: 60% + Mathematics\n\nWould you like to know about a specific course?"),
			},
			{
				Name:     "about",
				Keywords: []string{"about", "college", "history", "established", "accreditation"},
				Answer:   Single("St. Xavier's College, established in 1965, is a premier institution affiliated with Delhi University. We are NAAC 'A' Grade accredited.\n\n📊 Our Stats:\n• 5000+ Students\n• 200+ Faculty Members\n• 50+ Years of Excellence\n• 95% Placement Rate\n\nWe are committed to providing quality education and holistic development of our students."),
			},
			{
				Name:     "thanks",
				Keywords: []string{"thank", "thanks", "thank you", "appreciate"},
				Answer: Choice(
					"You're welcome! Feel free to ask if you have any other questions.",
					"Happy to help! Let me know if you need anything else.",
					"My pleasure! Don't hesitate to ask if you have more questions.",
				),
			},
			{
				Name:     "bye",
				Keywords: []string{"bye", "goodbye", "see you", "exit"},
				Answer: Choice(
					"Goodbye! Best wishes for your academic journey. Feel free to return if you have more questions!",
					"See you! Good luck with your college search!",
					"Take care! We hope to see you at St. Xavier's College!",
				),
			},
		},
	}
}
