package profile

// Supplement returns hand-written Q&A pairs distilled from the resume and
// LinkedIn profile. They cover details the summary document glosses over
// and are appended to the store during first-time seeding.
func Supplement() []QAPair {
	return []QAPair{
		{
			Question: "What certifications do you have?",
			Answer: `I hold several certifications:
- Programming with JavaScript
- React Basics
- Building Data Lakes on AWS
- AWS Cloud Technical Essentials
- Architecting Solutions on AWS
- Currently pursuing HL7 FHIR Certification`,
		},
		{
			Question: "What languages do you speak?",
			Answer:   "I'm fluent in English and have professional working proficiency in Hebrew.",
		},
		{
			Question: "What was your research assistant role about?",
			Answer:   "At Katz School at Yeshiva University (August 2022 - January 2023), I worked as a Research Assistant in the New York City Metropolitan Area. I was tasked with deploying microservice benchmarks and carrying out DDoS attacks for security research purposes. This gave me hands-on experience with distributed systems, security testing, and performance benchmarking.",
		},
		{
			Question: "What did you work on at SIDEARM Sports?",
			Answer: `At SIDEARM Sports (April 2023 - October 2023), I worked as a Jr. Developer in Syracuse, NY. Key accomplishments:
- Collaborated in an Agile environment with daily stand-ups, sprint planning, and retrospectives
- Played a significant role in overhauling the company's CMS product from monolithic to microservice-based architecture
- Contributed to a database redesign that consolidated 1,300 client-specific databases into a streamlined 12-database system
- Enhanced user experience on NCAA Tickets website by fixing mobile device layout issues
- Developed a search and filter feature for the UConn Huskies streaming and on-demand service`,
		},
		{
			Question: "What is your contact information?",
			Answer: `You can reach me at:
- Email: samshulman6@gmail.com
- LinkedIn: linkedin.com/in/sam-shulman
- GitHub: github.com/shulman33
- Portfolio: www.samjshulman.com`,
		},
		{
			Question: "What awards or honors have you received?",
			Answer: `I've received the following honors and awards:
- Dean's List at Yeshiva University
- Second Place Hackathon Winner`,
		},
		{
			Question: "What is your experience with distributed systems?",
			Answer: `I have significant experience with distributed systems:
- Bachelor's degree with a Distributed Systems Track at Yeshiva University
- Relevant coursework: Distributed Systems, Parallel Programming, Algorithms, Operating Systems, Networking, Compilers
- Research Assistant experience deploying microservice benchmarks
- Professional experience transitioning monolithic systems to microservices at SIDEARM Sports
- Current work at Healthfirst designing event-driven serverless architectures`,
		},
		{
			Question: "Tell me about the ImIn project",
			Answer: `ImIn was an Automated Course Registration System I built from January to June 2023:
- Developed a registration system that automated class enrollment in less than one second when slots opened
- Achieved 2,256 page views and 946 unique page views in 30 days
- Served roughly 50% of the student body at Yeshiva University
- Solved a real pain point for students dealing with competitive course registration`,
		},
		{
			Question: "What big data experience do you have?",
			Answer: `I have hands-on experience with big data at multiple scales:
- At Cognizant: Worked with petabytes of healthcare data to develop Power BI reports
- At Healthfirst: Supporting the team in processing Machine-Readable Files (MRFs) ranging from 100 GB to 1 TB for federal compliance initiatives
- Skills in SQL optimization that improved report visualization loading time by 80%`,
		},
		{
			Question: "What frontend technologies do you know?",
			Answer: `My frontend technology stack includes:
- Languages: TypeScript, JavaScript, HTML, CSS
- Frameworks: React, Next.js, Vue.js
- UI Libraries: Antd, Shadcn UI, Tailwind CSS
- Tools: Git, GitHub, Jira
I've built administrative dashboards, user-facing applications, and Chrome extensions using these technologies.`,
		},
		{
			Question: "What backend technologies do you know?",
			Answer: `My backend technology stack includes:
- Languages: Python, Java, SQL
- Databases: PostgreSQL, SQLite
- Frameworks: Django, FastAPI, Wagtail, Node.js
- Cloud: AWS (Step Functions, SES, Lambda, S3)
- Tools: Docker, JUnit
I've built APIs, data pipelines, and serverless architectures using these technologies.`,
		},
	}
}
