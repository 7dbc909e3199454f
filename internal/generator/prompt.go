package generator

const planPrompt = `Gere um plano de estudos detalhado de 12 semanas em português do Brasil para uma pessoa que deseja migrar para uma carreira de tecnologia com foco em NoCode/LowCode e automações.
A rotina é de 2 horas/dia durante a semana (Seg-Sex) e 3 horas/dia nos fins de semana (Sáb-Dom).
O plano deve ser estruturado de tópicos fundamentais a avançados: fundamentos -> CRM -> dashboards -> automações -> template comercial.
Para cada uma das 12 semanas, forneça um número, um título e uma meta.
Para cada semana, gere tarefas para todos os 7 dias (de segunda a domingo).
Para cada tarefa, forneça o dia da semana (1 para segunda, 7 para domingo), um título, um tipo ('study', 'practice', 'review') e os minutos estimados. O total de minutos estimados para cada dia deve corresponder à rotina (120 minutos durante a semana, 180 minutos nos fins de semana).
Garanta que a Semana 1 seja especialmente detalhada e fundamental.

Responda apenas com um objeto JSON, sem texto adicional, neste formato:
{"weeks":[{"number":1,"title":"...","goal":"...","tasks":[{"dayOfWeek":1,"title":"...","type":"study","estimated_minutes":60}]}]}`
